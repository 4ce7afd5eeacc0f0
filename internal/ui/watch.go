package ui

import (
	"log"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/gubarz/cellmd/internal/parser"
)

// reloadMsg carries a fresh snapshot of the notebook after it changed on disk
type reloadMsg struct {
	doc *parser.Document
}

// watchErrMsg reports a watcher or reload failure
type watchErrMsg struct {
	err error
}

// fileWatcher turns filesystem events for one notebook into reload messages
type fileWatcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// newFileWatcher watches the notebook's directory; editors that save by
// renaming a temp file over the original never write the watched inode.
func newFileWatcher(path string) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}
	return &fileWatcher{path: abs, watcher: w}, nil
}

// next blocks until the notebook changes and returns the resulting message
func (fw *fileWatcher) next() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-fw.watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != fw.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				log.Printf("reload %s (%s)", fw.path, ev.Op)
				doc, err := parser.LoadDocument(fw.path)
				if err != nil {
					return watchErrMsg{err: err}
				}
				return reloadMsg{doc: doc}
			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{err: err}
			}
		}
	}
}

// Close stops watching
func (fw *fileWatcher) Close() error {
	return fw.watcher.Close()
}
