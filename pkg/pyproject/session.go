// SPDX-License-Identifier: MPL-2.0

package pyproject

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"pyproject-patcher/pkg/tomldoc"
)

type sessionState uint8

const (
	stateUnopened sessionState = iota
	stateOpen
	stateClosed
)

// Session is a scoped edit of one manifest file. The file is read and parsed
// by Open and written back at most once, by Close.
type Session struct {
	path    string
	mode    fs.FileMode
	state   sessionState
	patcher *Patcher
	logger  *log.Logger
}

// Open reads and parses the manifest at path.
func Open(path string, opts ...Option) (*Session, error) {
	o := newOptions(opts)

	// Resolve symlinks so that Close replaces the target, not the link.
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	doc, err := tomldoc.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	o.logger.Debug("opened manifest", "path", path, "bytes", len(data))
	return &Session{
		path:    resolved,
		mode:    info.Mode().Perm(),
		state:   stateOpen,
		patcher: &Patcher{doc: doc, logger: o.logger, lookupEnv: o.lookupEnv},
		logger:  o.logger,
	}, nil
}

// Path returns the resolved path of the manifest.
func (s *Session) Path() string { return s.path }

// Patcher returns the patcher bound to the session document.
func (s *Session) Patcher() *Patcher { return s.patcher }

// Close writes the document back to the manifest and ends the session.
// Closing a session that is not open returns ErrSessionClosed.
func (s *Session) Close() error {
	if s.state != stateOpen {
		return ErrSessionClosed
	}
	s.state = stateClosed

	data := s.patcher.doc.Bytes()
	if err := writeFileAtomic(s.path, data, s.mode); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	s.logger.Debug("wrote manifest", "path", s.path, "bytes", len(data))
	return nil
}

// Abort ends the session without writing. Aborting a closed session is a
// no-op.
func (s *Session) Abort() {
	if s.state == stateOpen {
		s.logger.Debug("discarded manifest changes", "path", s.path)
	}
	s.state = stateClosed
}

// PatchInPlace opens the manifest at path, runs fn on its patcher and writes
// the result only when fn returns nil. Errors from fn are returned as is.
func PatchInPlace(path string, fn func(*Patcher) error, opts ...Option) error {
	s, err := Open(path, opts...)
	if err != nil {
		return err
	}
	if err := fn(s.Patcher()); err != nil {
		s.Abort()
		return err
	}
	return s.Close()
}

// writeFileAtomic replaces path with data through a temp file in the same
// directory, so readers never observe a partial manifest.
func writeFileAtomic(path string, data []byte, mode fs.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			// Best-effort removal of the partially written temp file.
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing file: %w", err)
	}
	return nil
}
