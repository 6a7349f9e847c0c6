package memory

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rpattn/portaldata/internal/domain"
)

// Seed is the YAML fixture layout accepted by LoadSeed.
type Seed struct {
	Studies []struct {
		StudyID      string     `yaml:"studyId"`
		Name         string     `yaml:"name"`
		Description  string     `yaml:"description"`
		CancerTypeID string     `yaml:"cancerTypeId"`
		Public       bool       `yaml:"public"`
		PMID         string     `yaml:"pmid"`
		Citation     string     `yaml:"citation"`
		ImportDate   *time.Time `yaml:"importDate"`
	} `yaml:"studies"`
	Genes []struct {
		EntrezGeneID   int64    `yaml:"entrezGeneId"`
		HugoGeneSymbol string   `yaml:"hugoGeneSymbol"`
		Type           string   `yaml:"type"`
		Cytoband       string   `yaml:"cytoband"`
		Length         int      `yaml:"length"`
		Aliases        []string `yaml:"aliases"`
	} `yaml:"genes"`
	Samples []struct {
		StudyID    string `yaml:"studyId"`
		SampleID   string `yaml:"sampleId"`
		SampleType string `yaml:"sampleType"`
		PatientID  string `yaml:"patientId"`
	} `yaml:"samples"`
	CopyNumberSegments []struct {
		StudyID        string  `yaml:"studyId"`
		SampleID       string  `yaml:"sampleId"`
		Chromosome     string  `yaml:"chromosome"`
		Start          int64   `yaml:"start"`
		End            int64   `yaml:"end"`
		NumberOfProbes int     `yaml:"numberOfProbes"`
		SegmentMean    float64 `yaml:"segmentMean"`
	} `yaml:"copyNumberSegments"`
	ProteinArrays []struct {
		ArrayID       string   `yaml:"arrayId"`
		Type          string   `yaml:"type"`
		Gene          string   `yaml:"gene"`
		Residue       string   `yaml:"residue"`
		Source        string   `yaml:"source"`
		Validated     bool     `yaml:"validated"`
		EntrezGeneIDs []int64  `yaml:"entrezGeneIds"`
		Studies       []string `yaml:"studies"`
	} `yaml:"proteinArrays"`
	ProteinArrayData []struct {
		StudyID   string  `yaml:"studyId"`
		ArrayID   string  `yaml:"arrayId"`
		CaseID    string  `yaml:"caseId"`
		Abundance float64 `yaml:"abundance"`
	} `yaml:"proteinArrayData"`
}

// LoadSeedFile reads a YAML fixture from disk into a new store.
func LoadSeedFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return LoadSeed(f)
}

// LoadSeed decodes a YAML fixture into a new store. References to unknown
// studies or samples are rejected.
func LoadSeed(r io.Reader) (*Store, error) {
	var seed Seed
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}

	store := NewStore()
	studyIDs := map[string]int{}
	for _, st := range seed.Studies {
		if st.StudyID == "" {
			return nil, fmt.Errorf("seed study without studyId")
		}
		if _, dup := studyIDs[st.StudyID]; dup {
			return nil, fmt.Errorf("duplicate seed study %q", st.StudyID)
		}
		added := store.AddStudy(domain.CancerStudy{
			StudyID:      st.StudyID,
			Name:         st.Name,
			Description:  st.Description,
			CancerTypeID: st.CancerTypeID,
			PublicStudy:  st.Public,
			PMID:         st.PMID,
			Citation:     st.Citation,
			ImportDate:   st.ImportDate,
		})
		studyIDs[st.StudyID] = added.InternalID
	}

	for _, g := range seed.Genes {
		store.AddGene(domain.Gene{
			EntrezGeneID:   g.EntrezGeneID,
			HugoGeneSymbol: g.HugoGeneSymbol,
			Type:           g.Type,
			Cytoband:       g.Cytoband,
			Length:         g.Length,
		}, g.Aliases...)
	}

	samples := map[string]bool{}
	for _, sm := range seed.Samples {
		if _, ok := studyIDs[sm.StudyID]; !ok {
			return nil, fmt.Errorf("sample %q references unknown study %q", sm.SampleID, sm.StudyID)
		}
		store.AddSample(domain.Sample{
			SampleID:   sm.SampleID,
			SampleType: sm.SampleType,
			PatientID:  sm.PatientID,
			StudyID:    sm.StudyID,
		})
		samples[sm.StudyID+"/"+sm.SampleID] = true
	}

	for _, seg := range seed.CopyNumberSegments {
		if !samples[seg.StudyID+"/"+seg.SampleID] {
			return nil, fmt.Errorf("segment references unknown sample %s/%s", seg.StudyID, seg.SampleID)
		}
		store.AddCopyNumberSegment(domain.CopyNumberSegment{
			StudyID:        seg.StudyID,
			SampleID:       seg.SampleID,
			Chromosome:     seg.Chromosome,
			Start:          seg.Start,
			End:            seg.End,
			NumberOfProbes: seg.NumberOfProbes,
			SegmentMean:    seg.SegmentMean,
		})
	}

	for _, pa := range seed.ProteinArrays {
		linked := make([]int, 0, len(pa.Studies))
		for _, studyID := range pa.Studies {
			internalID, ok := studyIDs[studyID]
			if !ok {
				return nil, fmt.Errorf("protein array %q references unknown study %q", pa.ArrayID, studyID)
			}
			linked = append(linked, internalID)
		}
		store.AddProteinArray(domain.ProteinArrayInfo{
			ID:            pa.ArrayID,
			Type:          pa.Type,
			Gene:          pa.Gene,
			Residue:       pa.Residue,
			Source:        pa.Source,
			Validated:     pa.Validated,
			EntrezGeneIDs: pa.EntrezGeneIDs,
		}, linked...)
	}

	for _, d := range seed.ProteinArrayData {
		internalID, ok := studyIDs[d.StudyID]
		if !ok {
			return nil, fmt.Errorf("protein array data references unknown study %q", d.StudyID)
		}
		store.AddProteinArrayData(internalID, domain.ProteinArrayData{ArrayID: d.ArrayID, CaseID: d.CaseID, Abundance: d.Abundance})
	}

	return store, nil
}
