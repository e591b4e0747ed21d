package graph

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrMalformedEdgeList = errors.New("malformed edge list")

// LoadEdgeList parses a whitespace-separated edge list, one relationship per
// line as "source target" or "source target weight". Lines starting with '#'
// and blank lines are skipped. The node count is the highest id seen plus
// one, so isolated trailing nodes must appear as self-referencing comments or
// be added by the caller.
func LoadEdgeList(r io.Reader) (*CSR, error) {
	type rawEdge struct {
		source, target uint64
		weight         float64
		weighted       bool
	}

	var (
		edges   []rawEdge
		maxNode uint64
		lineNo  int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 && len(fields) != 3 {
			return nil, fmt.Errorf("%w: line %d: expected 2 or 3 fields, got %d", ErrMalformedEdgeList, lineNo, len(fields))
		}

		source, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedEdgeList, lineNo, err)
		}
		target, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedEdgeList, lineNo, err)
		}

		e := rawEdge{source: source, target: target, weight: 1.0}
		if len(fields) == 3 {
			w, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedEdgeList, lineNo, err)
			}
			e.weight, e.weighted = w, true
		}

		if source > maxNode {
			maxNode = source
		}
		if target > maxNode {
			maxNode = target
		}
		edges = append(edges, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	nodeCount := uint64(0)
	if len(edges) > 0 {
		nodeCount = maxNode + 1
	}

	builder := NewBuilder(nodeCount)
	for _, e := range edges {
		var err error
		if e.weighted {
			err = builder.AddWeightedRelationship(e.source, e.target, e.weight)
		} else {
			err = builder.AddRelationship(e.source, e.target)
		}
		if err != nil {
			return nil, err
		}
	}
	return builder.Build(), nil
}
