package stringhash

import "strings"

// entry is one key/value pair. The key is fixed at creation; value is the
// only field that changes afterwards.
type entry struct {
	next  *entry
	key   string
	value []byte
}

// bucket is the head of one chain. Entries are kept most recently set
// first.
type bucket struct {
	head *entry
}

// find returns the entry for key and its predecessor in the chain
// (nil when the entry is the head).
func (b *bucket) find(key string) (e, prev *entry) {
	for e = b.head; e != nil; prev, e = e, e.next {
		// Length first: cheap rejection before the byte compare.
		if len(e.key) == len(key) && e.key == key {
			return e, prev
		}
	}
	return nil, nil
}

func (b *bucket) unlink(e, prev *entry) {
	if prev == nil {
		b.head = e.next
	} else {
		prev.next = e.next
	}
	e.next = nil
}

func (b *bucket) pushFront(e *entry) {
	e.next = b.head
	b.head = e
}

// set inserts or updates key and moves its entry to the chain head.
// It reports whether a new entry was created.
//
// Every allocation happens before the chain is touched, so a failed
// allocation can never leave a half-linked entry behind.
func (b *bucket) set(key, value string) (inserted bool) {
	e, prev := b.find(key)
	if e == nil {
		e = &entry{
			key:   strings.Clone(key),
			value: []byte(value),
		}
		b.pushFront(e)
		return true
	}

	if cap(e.value) >= len(value) {
		e.value = append(e.value[:0], value...)
	} else {
		e.value = []byte(value)
	}
	if prev != nil {
		b.unlink(e, prev)
		b.pushFront(e)
	}
	return false
}

func (b *bucket) remove(key string) bool {
	e, prev := b.find(key)
	if e == nil {
		return false
	}
	b.unlink(e, prev)
	e.value = nil
	return true
}

// clear unlinks every entry and returns how many there were.
func (b *bucket) clear() int {
	n := 0
	for e := b.head; e != nil; {
		next := e.next
		e.next, e.value = nil, nil
		e = next
		n++
	}
	b.head = nil
	return n
}

func (b *bucket) appendKeys(dst []string) []string {
	for e := b.head; e != nil; e = e.next {
		dst = append(dst, e.key)
	}
	return dst
}

// rangeEntries calls yield for each entry in chain order and reports
// whether iteration ran to completion.
func (b *bucket) rangeEntries(yield func(key string, value []byte) bool) bool {
	for e := b.head; e != nil; e = e.next {
		if !yield(e.key, e.value) {
			return false
		}
	}
	return true
}

func (b *bucket) len() int {
	n := 0
	for e := b.head; e != nil; e = e.next {
		n++
	}
	return n
}
