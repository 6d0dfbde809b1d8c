// SPDX-License-Identifier: MPL-2.0

package main

import cmd "pyproject-patcher/cmd/pyproject-patcher"

func main() {
	cmd.Execute()
}
