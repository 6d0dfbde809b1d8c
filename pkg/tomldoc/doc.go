// SPDX-License-Identifier: MPL-2.0

// Package tomldoc provides a format-preserving model of a TOML document.
//
// A Document keeps the original source bytes next to the decoded tree. Lookups
// go through the decoded tree (decoded by go-toml/v2), while mutations are
// expressed as byte splices over the source: untouched keys keep their
// comments, whitespace, quoting and order. After every splice the document is
// parsed again, so paths are always resolved against the current state and a
// splice that would produce invalid TOML is rejected without changing the
// document.
//
// Missing or mis-shaped paths are errors, never silent defaults:
//
//	doc, err := tomldoc.Parse(src)
//	if err != nil {
//		return err
//	}
//	if err := doc.Set(tomldoc.Path{"project", "version"}, "1.2.3"); err != nil {
//		return err // *SectionMissingError when [project] does not exist
//	}
//	os.Stdout.Write(doc.Bytes())
package tomldoc
