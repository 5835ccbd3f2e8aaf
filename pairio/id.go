package pairio

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/ngseq/pastitch/assemble"
)

// ParseId decodes a FASTQ identifier line (without its leading '@') into an
// assemble.Id, grounded on original_source/parser.c's panda_seqid_parse,
// which supports two Illumina header generations:
//
//   - CASAVA 1.7+: "INSTRUMENT:RUN:FLOWCELL:LANE:TILE:X:Y MATE:FILTERED:0:TAG"
//   - CASAVA 1.4-1.6: "INSTRUMENT:LANE:TILE:X:Y#TAG/MATE"
//
// If header matches neither shape, ParseId synthesizes a stable Tag via
// google/uuid so assemble.Id's total ordering (spec.md §3) still holds; the
// remaining fields are left zero.
func ParseId(header string) assemble.Id {
	if id, ok := parseCasava17(header); ok {
		return id
	}
	if id, ok := parseCasava14(header); ok {
		return id
	}
	return assemble.Id{Tag: uuid.NewSHA1(uuid.NameSpaceOID, []byte(header)).String()}
}

// parseCasava17 handles "INSTR:RUN:FLOWCELL:LANE:TILE:X:Y MATE:FILT:0:TAG".
func parseCasava17(header string) (assemble.Id, bool) {
	head, tail, ok := strings.Cut(header, " ")
	if !ok {
		return assemble.Id{}, false
	}
	hparts := strings.Split(head, ":")
	if len(hparts) != 7 {
		return assemble.Id{}, false
	}
	run, err1 := strconv.Atoi(hparts[1])
	lane, err2 := strconv.Atoi(hparts[3])
	tile, err3 := strconv.Atoi(hparts[4])
	x, err4 := strconv.Atoi(hparts[5])
	y, err5 := strconv.Atoi(hparts[6])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return assemble.Id{}, false
	}
	tparts := strings.Split(tail, ":")
	tag := tparts[len(tparts)-1]
	if tag == "" {
		return assemble.Id{}, false
	}
	return assemble.Id{
		Instrument: hparts[0],
		Run:        run,
		Flowcell:   hparts[2],
		Lane:       lane,
		Tile:       tile,
		X:          x,
		Y:          y,
		Tag:        tag,
	}, true
}

// parseCasava14 handles "INSTR:LANE:TILE:X:Y#TAG/MATE".
func parseCasava14(header string) (assemble.Id, bool) {
	head, tag, ok := strings.Cut(header, "#")
	if !ok {
		return assemble.Id{}, false
	}
	parts := strings.Split(head, ":")
	if len(parts) != 5 {
		return assemble.Id{}, false
	}
	lane, err1 := strconv.Atoi(parts[1])
	tile, err2 := strconv.Atoi(parts[2])
	x, err3 := strconv.Atoi(parts[3])
	y, err4 := strconv.Atoi(parts[4])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return assemble.Id{}, false
	}
	tag, _, _ = strings.Cut(tag, "/")
	if tag == "" {
		return assemble.Id{}, false
	}
	return assemble.Id{
		Instrument: parts[0],
		Lane:       lane,
		Tile:       tile,
		X:          x,
		Y:          y,
		Tag:        tag,
	}, true
}
