package assemble

import "fmt"

// Id is the structured pair identifier spec.md §3 treats as opaque:
// { instrument, run, flowcell, lane, tile, x, y, tag }. Parsing one from a
// FASTQ header is pairio's job; assemble only needs the total ordering.
type Id struct {
	Instrument string
	Run        int
	Flowcell   string
	Lane       int
	Tile       int
	X          int
	Y          int
	Tag        string
}

// Less implements the total order spec.md §3 calls for, comparing fields
// in the order they're declared.
func (id Id) Less(other Id) bool {
	if id.Instrument != other.Instrument {
		return id.Instrument < other.Instrument
	}
	if id.Run != other.Run {
		return id.Run < other.Run
	}
	if id.Flowcell != other.Flowcell {
		return id.Flowcell < other.Flowcell
	}
	if id.Lane != other.Lane {
		return id.Lane < other.Lane
	}
	if id.Tile != other.Tile {
		return id.Tile < other.Tile
	}
	if id.X != other.X {
		return id.X < other.X
	}
	if id.Y != other.Y {
		return id.Y < other.Y
	}
	return id.Tag < other.Tag
}

func (id Id) String() string {
	return fmt.Sprintf("%s:%d:%s:%d:%d:%d:%d#%s", id.Instrument, id.Run, id.Flowcell, id.Lane, id.Tile, id.X, id.Y, id.Tag)
}
