// Package exposure decides which JSON fields of each entity type reach API
// clients. Internal storage keys stay server side.
package exposure

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Entity type names.
const (
	Study             = "study"
	Gene              = "gene"
	Sample            = "sample"
	CopyNumberSegment = "copyNumberSegment"
	ProteinArray      = "proteinArray"
)

// Fields lists the visible JSON fields per entity type, in output order.
type Fields map[string][]string

// Default returns the field subsets served by the HTTP API.
func Default() Fields {
	return Fields{
		Study:             {"studyId", "name", "description", "cancerTypeId", "publicStudy", "pmid", "citation", "importDate"},
		Gene:              {"entrezGeneId", "hugoGeneSymbol", "type", "cytoband", "length", "chromosome"},
		Sample:            {"sampleId", "sampleType", "patientId", "studyId"},
		CopyNumberSegment: {"studyId", "sampleId", "chromosome", "start", "end", "numberOfProbes", "segmentMean"},
		ProteinArray:      {"arrayId", "arrayType", "gene", "residue", "source", "validated", "entrezGeneIds"},
	}
}

// Marshal encodes v and keeps only the fields visible for entityType. Fields
// absent from v's encoding (omitted empties) stay absent.
func (f Fields) Marshal(entityType string, v any) (json.RawMessage, error) {
	visible, ok := f[entityType]
	if !ok {
		return nil, fmt.Errorf("no field exposure for entity type %q", entityType)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", entityType, err)
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("%s does not encode as an object: %w", entityType, err)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, field := range visible {
		value, present := all[field]
		if !present {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, _ := json.Marshal(field)
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalList applies Marshal to every element of items.
func MarshalList[T any](f Fields, entityType string, items []T) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		encoded, err := f.Marshal(entityType, item)
		if err != nil {
			return nil, err
		}
		out = append(out, encoded)
	}
	return out, nil
}
