// Package iopool implements the bounded, LRU-evicted cache of open segment
// file descriptors described in spec.md §4.1: registers segment paths,
// opens them lazily, and reads and writes with positional ReadAt/WriteAt
// calls, so it never seeks.
package iopool

import (
	"container/list"
	"fmt"
	"io"
	"os"
)

// OpenMode selects whether a registered segment is opened for reading or
// for appending writes.
type OpenMode int

const (
	ReadOnly OpenMode = iota
	ReadWrite
	Create
)

type entry struct {
	index      int
	path       string
	mode       OpenMode
	file       *os.File
	lastOffset int64
	lruElem    *list.Element
}

// Pool bounds the number of simultaneously open segment files. MaxOpen == 0
// means unbounded (no eviction).
type Pool struct {
	maxOpen int
	entries map[int]*entry
	lru     *list.List // front = most recently used
}

// New creates a Pool that keeps at most maxOpen file descriptors open.
func New(maxOpen int) *Pool {
	return &Pool{
		maxOpen: maxOpen,
		entries: make(map[int]*entry),
		lru:     list.New(),
	}
}

// Register associates segmentIndex with a path and mode without
// necessarily opening the file yet (spec.md §4.1 open()).
func (p *Pool) Register(segmentIndex int, path string, mode OpenMode) {
	p.entries[segmentIndex] = &entry{index: segmentIndex, path: path, mode: mode, lastOffset: -1}
}

// IsRegistered reports whether segmentIndex has been Register-ed.
func (p *Pool) IsRegistered(segmentIndex int) bool {
	_, ok := p.entries[segmentIndex]
	return ok
}

func (p *Pool) acquire(segmentIndex int) (*entry, error) {
	e, ok := p.entries[segmentIndex]
	if !ok {
		return nil, fmt.Errorf("iopool: segment %d not registered", segmentIndex)
	}
	if e.file == nil {
		if p.maxOpen > 0 {
			p.evictIfNeeded()
		}
		f, err := p.openFile(e)
		if err != nil {
			return nil, fmt.Errorf("iopool: open segment %d (%s): %w", segmentIndex, e.path, err)
		}
		e.file = f
		e.lastOffset = -1
	}
	p.touch(e)
	return e, nil
}

func (p *Pool) openFile(e *entry) (*os.File, error) {
	switch e.mode {
	case ReadOnly:
		return os.Open(e.path)
	case ReadWrite:
		return os.OpenFile(e.path, os.O_RDWR, 0o644)
	case Create:
		return os.OpenFile(e.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	default:
		return nil, fmt.Errorf("iopool: unknown open mode %d", e.mode)
	}
}

func (p *Pool) touch(e *entry) {
	if e.lruElem != nil {
		p.lru.MoveToFront(e.lruElem)
		return
	}
	e.lruElem = p.lru.PushFront(e)
}

func (p *Pool) evictIfNeeded() {
	for p.openCount() >= p.maxOpen {
		back := p.lru.Back()
		if back == nil {
			return
		}
		victim := back.Value.(*entry)
		p.lru.Remove(back)
		victim.lruElem = nil
		if victim.file != nil {
			victim.file.Close()
			victim.file = nil
			victim.lastOffset = -1
		}
	}
}

func (p *Pool) openCount() int {
	n := 0
	for _, e := range p.entries {
		if e.file != nil {
			n++
		}
	}
	return n
}

// ReadAt reads into buf starting at offset in segment segmentIndex. It is a
// positional read, so no seek is issued and the file's cursor is not moved.
func (p *Pool) ReadAt(segmentIndex int, offset int64, buf []byte) (int, error) {
	e, err := p.acquire(segmentIndex)
	if err != nil {
		return 0, err
	}
	n, err := e.file.ReadAt(buf, offset)
	if err == nil || n == len(buf) {
		e.lastOffset = offset + int64(n)
	}
	return n, err
}

// WriteAt writes buf at offset in segment segmentIndex.
func (p *Pool) WriteAt(segmentIndex int, offset int64, buf []byte) (int, error) {
	e, err := p.acquire(segmentIndex)
	if err != nil {
		return 0, err
	}
	n, err := e.file.WriteAt(buf, offset)
	if err == nil {
		e.lastOffset = offset + int64(n)
	}
	return n, err
}

// segmentReaderAt adapts one registered segment to io.ReaderAt so callers
// like section.WalkChain don't need to know about the pool.
type segmentReaderAt struct {
	pool  *Pool
	index int
}

func (r segmentReaderAt) ReadAt(buf []byte, offset int64) (int, error) {
	return r.pool.ReadAt(r.index, offset, buf)
}

// ReaderAt returns an io.ReaderAt bound to segmentIndex.
func (p *Pool) ReaderAt(segmentIndex int) io.ReaderAt {
	return segmentReaderAt{pool: p, index: segmentIndex}
}

// Size returns the current on-disk size of segmentIndex.
func (p *Pool) Size(segmentIndex int) (int64, error) {
	e, err := p.acquire(segmentIndex)
	if err != nil {
		return 0, err
	}
	fi, err := e.file.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// CloseAll closes every open descriptor and clears the LRU list. Registered
// segments remain registered and may be re-opened by a later ReadAt/WriteAt.
func (p *Pool) CloseAll() error {
	var firstErr error
	for _, e := range p.entries {
		if e.file != nil {
			if err := e.file.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
			e.file = nil
		}
		e.lruElem = nil
	}
	p.lru.Init()
	return firstErr
}
