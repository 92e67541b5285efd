package nd

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/google/btree"
	"github.com/oklog/ulid/v2"

	"github.com/cube2222/ndarray/dtype"
)

// Storage is an arena of byte blocks. Block 0 is the root buffer, every other
// block is a var-dim row or the contents of a variable-length string, owned by
// exactly one indirect cell.
//
// Storage does no locking, callers must serialize mutating access.
type Storage struct {
	id     ulid.ULID
	blocks [][]byte
	free   *btree.BTree
}

type freeBlock int

func (b freeBlock) Less(than btree.Item) bool {
	return b < than.(freeBlock)
}

const rootBlock = 0

func newStorage(rootSize int) *Storage {
	return &Storage{
		id:     ulid.MustNew(ulid.Now(), rand.Reader),
		blocks: [][]byte{make([]byte, rootSize)},
		free:   btree.New(8),
	}
}

type location struct {
	block  int
	offset int
}

func (l location) add(offset int) location {
	return location{block: l.block, offset: l.offset + offset}
}

func (s *Storage) bytes(loc location, n int) []byte {
	return s.blocks[loc.block][loc.offset : loc.offset+n]
}

// alloc returns a fresh zeroed block, reusing the lowest freed index if any.
func (s *Storage) alloc(size int) int {
	if s.free.Len() > 0 {
		index := int(s.free.DeleteMin().(freeBlock))
		s.blocks[index] = make([]byte, size)
		return index
	}
	s.blocks = append(s.blocks, make([]byte, size))
	return len(s.blocks) - 1
}

func (s *Storage) release(block int) {
	s.blocks[block] = nil
	s.free.ReplaceOrInsert(freeBlock(block))
}

func (s *Storage) liveBlocks() int {
	return len(s.blocks) - s.free.Len()
}

func (s *Storage) readIndirect(loc location) (block int, length int) {
	cell := s.bytes(loc, dtype.IndirectCellSize)
	return int(binary.LittleEndian.Uint64(cell[0:8])), int(binary.LittleEndian.Uint64(cell[8:16]))
}

func (s *Storage) writeIndirect(loc location, block int, length int) {
	cell := s.bytes(loc, dtype.IndirectCellSize)
	binary.LittleEndian.PutUint64(cell[0:8], uint64(block))
	binary.LittleEndian.PutUint64(cell[8:16], uint64(length))
}

// releaseCell frees every block transitively owned by the cell of type t at loc
// and clears its indirect references.
func (s *Storage) releaseCell(t dtype.Type, loc location) {
	switch t.TypeID {
	case dtype.TypeIDString:
		block, _ := s.readIndirect(loc)
		if block != rootBlock {
			s.release(block)
		}
		s.writeIndirect(loc, rootBlock, 0)

	case dtype.TypeIDVarDim:
		block, length := s.readIndirect(loc)
		if block != rootBlock {
			element := t.Element()
			if hasIndirect(element) {
				for i := 0; i < length; i++ {
					s.releaseCell(element, location{block: block, offset: i * element.Size()})
				}
			}
			s.release(block)
		}
		s.writeIndirect(loc, rootBlock, 0)

	case dtype.TypeIDFixedDim:
		element := t.Element()
		if !hasIndirect(element) {
			return
		}
		for i := 0; i < t.FixedDim.Extent; i++ {
			s.releaseCell(element, loc.add(i*element.Size()))
		}

	case dtype.TypeIDStruct:
		for i, field := range t.Struct.Fields {
			if hasIndirect(field.Type) {
				s.releaseCell(field.Type, loc.add(t.FieldOffset(i)))
			}
		}
	}
}

func hasIndirect(t dtype.Type) bool {
	switch t.TypeID {
	case dtype.TypeIDString, dtype.TypeIDVarDim:
		return true
	case dtype.TypeIDFixedDim:
		return hasIndirect(t.Element())
	case dtype.TypeIDStruct:
		for _, field := range t.Struct.Fields {
			if hasIndirect(field.Type) {
				return true
			}
		}
	}
	return false
}

// stage returns a deep copy of the storage. Writes go to the copy, which is
// committed back only if the whole assignment succeeds.
func (s *Storage) stage() *Storage {
	blocks := make([][]byte, len(s.blocks))
	for i := range s.blocks {
		if s.blocks[i] != nil {
			blocks[i] = append(make([]byte, 0, len(s.blocks[i])), s.blocks[i]...)
		}
	}
	return &Storage{
		id:     s.id,
		blocks: blocks,
		free:   s.free.Clone(),
	}
}

func (s *Storage) commit(staged *Storage) {
	s.blocks = staged.blocks
	s.free = staged.free
}
