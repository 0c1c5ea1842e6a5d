// Package shadowprice keeps park-and-ride lots' minute-resolution price and
// load series balanced against capacity across simulation passes.
package shadowprice

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"travelcore/pkg/domain"
)

// Series blocks in file order. Column 1 is the node id; block b occupies
// columns 2+b*1440 .. 1+(b+1)*1440 and column k of a block maps to index k-1.
const (
	blockDifference = iota
	blockPrice
	blockExogenous
	blockAssigned
	blockCount
)

// TokensPerRow is the fixed field count of a table row.
const TokensPerRow = 1 + blockCount*domain.MinutesInDay

// DefaultDelimiter separates table fields when none is configured.
const DefaultDelimiter = ','

var blockNames = [blockCount]string{"shadow_price_difference", "shadow_price", "exogenous_load", "park_and_ride_load"}

// NodeState is one lot's row of the table.
type NodeState struct {
	NodeID                int
	ShadowPriceDifference domain.MinuteSeries
	ShadowPrice           domain.MinuteSeries
	ExogenousLoad         domain.MinuteSeries
	ParkAndRideLoad       domain.MinuteSeries
}

func (s *NodeState) block(b int) *domain.MinuteSeries {
	switch b {
	case blockDifference:
		return &s.ShadowPriceDifference
	case blockPrice:
		return &s.ShadowPrice
	case blockExogenous:
		return &s.ExogenousLoad
	default:
		return &s.ParkAndRideLoad
	}
}

// StateOf captures the four series of a lot record.
func StateOf(n *domain.ParkAndRideNode) *NodeState {
	return &NodeState{
		NodeID:                n.ID,
		ShadowPriceDifference: n.ShadowPriceDifference,
		ShadowPrice:           n.ShadowPrice,
		ExogenousLoad:         n.ExogenousLoad,
		ParkAndRideLoad:       n.ParkAndRideLoad,
	}
}

// Node returns a lot record carrying s's series. Capacity is not part of
// the table and stays zero.
func (s *NodeState) Node() *domain.ParkAndRideNode {
	return &domain.ParkAndRideNode{
		ID:                    s.NodeID,
		ShadowPriceDifference: s.ShadowPriceDifference,
		ShadowPrice:           s.ShadowPrice,
		ExogenousLoad:         s.ExogenousLoad,
		ParkAndRideLoad:       s.ParkAndRideLoad,
	}
}

// Table maps node id to its loaded state. A nil or empty table means shadow
// pricing is inactive for the pass.
type Table map[int]*NodeState

// NodeIDs returns the ids in ascending order.
func (t Table) NodeIDs() []int {
	ids := make([]int, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ParseError reports a malformed table token.
type ParseError struct {
	Path   string
	Line   int
	Column int // 1-based token position, 0 for row-level errors
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("shadowprice: %s:%d: column %d: %v", e.Path, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("shadowprice: %s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Decoding errors wrapped by ParseError.
var (
	ErrTokenCount    = errors.New("wrong token count")
	ErrDuplicateNode = errors.New("duplicate node id")
	ErrNonFinite     = errors.New("non-finite value")
)

// Decode reads a table. The first line is a header and is skipped; blank
// lines are ignored. path only labels errors.
func Decode(r io.Reader, path string, delim rune) (Table, error) {
	if delim == 0 {
		delim = DefaultDelimiter
	}
	br := bufio.NewReader(r)
	if _, err := br.ReadString('\n'); err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, nil
		}
		return nil, &ParseError{Path: path, Line: 1, Err: err}
	}
	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true

	table := make(Table)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return table, nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, &ParseError{Path: path, Line: perr.Line + 1, Column: perr.Column, Err: perr.Err}
			}
			return nil, &ParseError{Path: path, Err: err}
		}
		line, _ := cr.FieldPos(0)
		line++ // header consumed before the csv reader
		// a trailing delimiter leaves one empty field
		if len(row) == TokensPerRow+1 && strings.TrimSpace(row[TokensPerRow]) == "" {
			row = row[:TokensPerRow]
		}
		if len(row) != TokensPerRow {
			return nil, &ParseError{Path: path, Line: line, Err: fmt.Errorf("%w: got %d, want %d", ErrTokenCount, len(row), TokensPerRow)}
		}
		state, perr := decodeRow(row)
		if perr != nil {
			perr.Path, perr.Line = path, line
			return nil, perr
		}
		if _, dup := table[state.NodeID]; dup {
			return nil, &ParseError{Path: path, Line: line, Column: 1, Err: fmt.Errorf("%w: %d", ErrDuplicateNode, state.NodeID)}
		}
		table[state.NodeID] = state
	}
}

func decodeRow(row []string) (*NodeState, *ParseError) {
	id, err := strconv.Atoi(strings.TrimSpace(row[0]))
	if err != nil {
		return nil, &ParseError{Column: 1, Err: err}
	}
	state := &NodeState{NodeID: id}
	for b := 0; b < blockCount; b++ {
		series := state.block(b)
		offset := 1 + b*domain.MinutesInDay
		for i := 0; i < domain.MinutesInDay; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[offset+i]), 64)
			if err != nil {
				return nil, &ParseError{Column: offset + i + 1, Err: err}
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &ParseError{Column: offset + i + 1, Err: fmt.Errorf("%w: %q", ErrNonFinite, row[offset+i])}
			}
			series[i] = v
		}
	}
	return state, nil
}

// Encode writes t in node id order with a header line. Values use the
// shortest representation that parses back to the same float64.
func Encode(w io.Writer, t Table, delim rune) error {
	if delim == 0 {
		delim = DefaultDelimiter
	}
	cw := csv.NewWriter(w)
	cw.Comma = delim
	header := make([]string, 0, 1+blockCount)
	header = append(header, "node_id")
	for _, name := range blockNames {
		header = append(header, fmt.Sprintf("%s[1..%d]", name, domain.MinutesInDay))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, TokensPerRow)
	for _, id := range t.NodeIDs() {
		state := t[id]
		row[0] = strconv.Itoa(id)
		for b := 0; b < blockCount; b++ {
			series := state.block(b)
			offset := 1 + b*domain.MinutesInDay
			for i, v := range series {
				row[offset+i] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
