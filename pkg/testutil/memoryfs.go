package testutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryFS implements types.FS with in-memory storage. Symlinks are
// first-class: Lstat reports the link itself, Stat follows chains, and a
// dangling link stats as not-exist — the swap engine's state
// classification depends on exactly these semantics, which is why the
// standard in-memory filesystems don't fit here.
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string]*fileNode
	umask os.FileMode

	// Error injection. errorPaths fires on any access to a path;
	// opErrors fires only for one operation, keyed op then path
	// (Rename errors are keyed by the source path).
	errorPaths map[string]error
	opErrors   map[string]map[string]error

	// Statistics. Atomic because read methods only hold the read lock.
	readCount  atomic.Int64
	writeCount atomic.Int64
}

// fileNode represents a file, directory or symlink in memory
type fileNode struct {
	name     string
	mode     os.FileMode
	modTime  time.Time
	content  []byte
	isDir    bool
	isLink   bool
	linkDest string
	children map[string]*fileNode
}

// NewMemoryFS creates a new in-memory filesystem with a root directory.
func NewMemoryFS() *MemoryFS {
	root := &fileNode{
		name:     "/",
		mode:     0755 | os.ModeDir,
		modTime:  time.Now(),
		isDir:    true,
		children: make(map[string]*fileNode),
	}

	return &MemoryFS{
		files:      map[string]*fileNode{"/": root},
		umask:      0022,
		errorPaths: make(map[string]error),
		opErrors:   make(map[string]map[string]error),
	}
}

func (m *MemoryFS) normalizePath(path string) string {
	if !filepath.IsAbs(path) {
		path = "/" + path
	}
	return filepath.Clean(path)
}

// getNode retrieves the node at the given path without following links
func (m *MemoryFS) getNode(path string) (*fileNode, error) {
	path = m.normalizePath(path)

	if err, ok := m.errorPaths[path]; ok {
		return nil, err
	}

	node, exists := m.files[path]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}

	return node, nil
}

// resolveNode follows symlink chains. Relative link destinations resolve
// against the directory of the link.
func (m *MemoryFS) resolveNode(path string) (*fileNode, error) {
	const maxDepth = 16

	for depth := 0; depth < maxDepth; depth++ {
		node, err := m.getNode(path)
		if err != nil {
			return nil, err
		}
		if !node.isLink {
			return node, nil
		}

		dest := node.linkDest
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(filepath.Dir(m.normalizePath(path)), dest)
		}
		path = dest
	}

	return nil, &fs.PathError{Op: "stat", Path: path, Err: errors.New("too many levels of symbolic links")}
}

func (m *MemoryFS) getParentAndName(path string) (parent *fileNode, name string, err error) {
	path = m.normalizePath(path)
	dir := filepath.Dir(path)
	name = filepath.Base(path)

	parent, err = m.getNode(dir)
	if err != nil {
		return nil, "", err
	}

	if !parent.isDir {
		return nil, "", &fs.PathError{Op: "open", Path: dir, Err: errors.New("not a directory")}
	}

	return parent, name, nil
}

func (m *MemoryFS) injectedOpError(op, path string) error {
	if paths, ok := m.opErrors[op]; ok {
		if err, ok := paths[m.normalizePath(path)]; ok {
			return err
		}
	}
	return nil
}

// Stat returns file info, following symlinks. A dangling link reports
// fs.ErrNotExist, matching os.Stat.
func (m *MemoryFS) Stat(name string) (os.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.readCount.Add(1)

	node, err := m.resolveNode(name)
	if err != nil {
		return nil, err
	}

	return &fileInfo{node: node, name: filepath.Base(name)}, nil
}

// Lstat returns file info without following symlinks.
func (m *MemoryFS) Lstat(name string) (os.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.readCount.Add(1)

	node, err := m.getNode(name)
	if err != nil {
		return nil, err
	}

	return &fileInfo{node: node, name: filepath.Base(name)}, nil
}

// ReadFile reads the entire file content, following symlinks.
func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.readCount.Add(1)

	node, err := m.resolveNode(name)
	if err != nil {
		return nil, err
	}

	if node.isDir {
		return nil, &fs.PathError{Op: "read", Path: name, Err: errors.New("is a directory")}
	}

	// Return a copy to prevent mutation
	content := make([]byte, len(node.content))
	copy(content, node.content)
	return content, nil
}

// WriteFile writes data to a file, creating it and its parents if needed.
func (m *MemoryFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writeCount.Add(1)

	path := m.normalizePath(name)

	if err, ok := m.errorPaths[path]; ok {
		return err
	}
	if err := m.injectedOpError("write", path); err != nil {
		return err
	}

	parent, filename, err := m.getParentAndName(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := m.mkdirAll(filepath.Dir(path), 0755); err != nil {
				return err
			}
			parent, filename, err = m.getParentAndName(path)
			if err != nil {
				return err
			}
		} else {
			return err
		}
	}

	node := &fileNode{
		name:    filename,
		mode:    perm &^ m.umask,
		modTime: time.Now(),
		content: make([]byte, len(data)),
	}
	copy(node.content, data)

	parent.children[filename] = node
	m.files[path] = node

	return nil
}

// MkdirAll creates a directory and all necessary parents.
func (m *MemoryFS) MkdirAll(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writeCount.Add(1)

	return m.mkdirAll(path, perm)
}

func (m *MemoryFS) mkdirAll(path string, perm os.FileMode) error {
	path = m.normalizePath(path)

	if node, err := m.getNode(path); err == nil {
		if !node.isDir {
			return &fs.PathError{Op: "mkdir", Path: path, Err: errors.New("file exists")}
		}
		return nil
	}

	parts := splitPath(path)
	current := "/"
	currentNode := m.files["/"]

	for _, part := range parts {
		next := filepath.Join(current, part)

		if child, exists := currentNode.children[part]; exists {
			if !child.isDir {
				return &fs.PathError{Op: "mkdir", Path: next, Err: errors.New("not a directory")}
			}
			currentNode = child
			current = next
			continue
		}

		newDir := &fileNode{
			name:     part,
			mode:     perm | os.ModeDir,
			modTime:  time.Now(),
			isDir:    true,
			children: make(map[string]*fileNode),
		}

		currentNode.children[part] = newDir
		m.files[next] = newDir

		currentNode = newDir
		current = next
	}

	return nil
}

// ReadDir reads a directory and returns its entries.
func (m *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.readCount.Add(1)

	node, err := m.getNode(name)
	if err != nil {
		return nil, err
	}

	if !node.isDir {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: errors.New("not a directory")}
	}

	entries := make([]fs.DirEntry, 0, len(node.children))
	for childName, child := range node.children {
		entries = append(entries, &dirEntry{
			name: childName,
			info: &fileInfo{node: child, name: childName},
		})
	}

	return entries, nil
}

// Symlink creates a symbolic link. The target need not exist; dangling
// links are representable, as on a real filesystem.
func (m *MemoryFS) Symlink(oldname, newname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writeCount.Add(1)

	linkPath := m.normalizePath(newname)

	if err, ok := m.errorPaths[linkPath]; ok {
		return err
	}
	if err := m.injectedOpError("symlink", linkPath); err != nil {
		return err
	}

	if _, exists := m.files[linkPath]; exists {
		return &fs.PathError{Op: "symlink", Path: newname, Err: os.ErrExist}
	}

	parent, filename, err := m.getParentAndName(linkPath)
	if err != nil {
		return err
	}

	node := &fileNode{
		name:     filename,
		mode:     0777 | os.ModeSymlink,
		modTime:  time.Now(),
		isLink:   true,
		linkDest: oldname,
	}

	parent.children[filename] = node
	m.files[linkPath] = node

	return nil
}

// Readlink returns the destination of a symbolic link.
func (m *MemoryFS) Readlink(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.readCount.Add(1)

	node, err := m.getNode(name)
	if err != nil {
		return "", err
	}

	if !node.isLink {
		return "", &fs.PathError{Op: "readlink", Path: name, Err: errors.New("not a symbolic link")}
	}

	return node.linkDest, nil
}

// Remove removes a file, symlink or empty directory.
func (m *MemoryFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writeCount.Add(1)

	path := m.normalizePath(name)

	if err := m.injectedOpError("remove", path); err != nil {
		return err
	}

	node, err := m.getNode(path)
	if err != nil {
		return err
	}

	if node.isDir && len(node.children) > 0 {
		return &fs.PathError{Op: "remove", Path: name, Err: errors.New("directory not empty")}
	}

	parent, filename, err := m.getParentAndName(path)
	if err != nil {
		return err
	}

	delete(parent.children, filename)
	delete(m.files, path)

	return nil
}

// Rename moves a file or symlink. An existing destination is replaced,
// matching os.Rename on POSIX systems.
func (m *MemoryFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writeCount.Add(1)

	src := m.normalizePath(oldpath)
	dst := m.normalizePath(newpath)

	if err := m.injectedOpError("rename", src); err != nil {
		return err
	}
	if err, ok := m.errorPaths[src]; ok {
		return err
	}

	node, err := m.getNode(src)
	if err != nil {
		return err
	}
	if node.isDir {
		return &fs.PathError{Op: "rename", Path: oldpath, Err: errors.New("directory rename not supported")}
	}

	srcParent, srcName, err := m.getParentAndName(src)
	if err != nil {
		return err
	}
	dstParent, dstName, err := m.getParentAndName(dst)
	if err != nil {
		return err
	}

	delete(srcParent.children, srcName)
	delete(m.files, src)

	node.name = dstName
	dstParent.children[dstName] = node
	m.files[dst] = node

	return nil
}

// WithError configures the filesystem to return an error for any access
// to a specific path.
func (m *MemoryFS) WithError(path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errorPaths[m.normalizePath(path)] = err
	return m
}

// WithOpError configures an error for one operation on one path. op is
// one of "write", "symlink", "remove", "rename"; rename errors fire when
// the path is the rename source. This is how transaction tests make a
// specific step fail while the surrounding observations stay healthy.
func (m *MemoryFS) WithOpError(op, path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.opErrors[op] == nil {
		m.opErrors[op] = make(map[string]error)
	}
	m.opErrors[op][m.normalizePath(path)] = err
	return m
}

// ClearOpError removes a previously injected operation error.
func (m *MemoryFS) ClearOpError(op, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if paths, ok := m.opErrors[op]; ok {
		delete(paths, m.normalizePath(path))
	}
}

// Stats returns filesystem operation statistics.
func (m *MemoryFS) Stats() (reads, writes int) {
	return int(m.readCount.Load()), int(m.writeCount.Load())
}

// Exists reports whether a path exists at all (without following links).
func (m *MemoryFS) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.files[m.normalizePath(path)]
	return exists
}

func splitPath(path string) []string {
	var parts []string
	clean := filepath.Clean(path)
	for clean != "/" && clean != "." {
		parts = append([]string{filepath.Base(clean)}, parts...)
		clean = filepath.Dir(clean)
	}
	return parts
}

// fileInfo implements os.FileInfo
type fileInfo struct {
	node *fileNode
	name string
}

func (fi *fileInfo) Name() string       { return fi.name }
func (fi *fileInfo) Size() int64        { return int64(len(fi.node.content)) }
func (fi *fileInfo) Mode() os.FileMode  { return fi.node.mode }
func (fi *fileInfo) ModTime() time.Time { return fi.node.modTime }
func (fi *fileInfo) IsDir() bool        { return fi.node.isDir }
func (fi *fileInfo) Sys() interface{}   { return fi.node }

// dirEntry implements fs.DirEntry
type dirEntry struct {
	name string
	info os.FileInfo
}

func (de *dirEntry) Name() string               { return de.name }
func (de *dirEntry) IsDir() bool                { return de.info.IsDir() }
func (de *dirEntry) Type() os.FileMode          { return de.info.Mode().Type() }
func (de *dirEntry) Info() (os.FileInfo, error) { return de.info, nil }
