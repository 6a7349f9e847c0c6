package genes

import (
	"strings"

	"github.com/rpattn/portaldata/internal/domain"
)

// ChromosomeFromCytoband derives the chromosome from a cytoband such as
// "17p13.1", "Xq28" or "chr12p12.1". Unparseable input yields "".
func ChromosomeFromCytoband(cytoband string) string {
	band := strings.ToUpper(strings.TrimSpace(cytoband))
	band = strings.TrimPrefix(band, "CHR")
	switch {
	case band == "":
		return ""
	case strings.HasPrefix(band, "X"):
		return "X"
	case strings.HasPrefix(band, "Y"):
		return "Y"
	case strings.HasPrefix(band, "MT"), band == "M":
		return "MT"
	}

	end := 0
	for end < len(band) && band[end] >= '0' && band[end] <= '9' {
		end++
	}
	if end == 0 {
		return ""
	}
	return strings.TrimLeft(band[:end], "0")
}

func withChromosome(g domain.Gene) domain.Gene {
	g.Chromosome = ChromosomeFromCytoband(g.Cytoband)
	return g
}
