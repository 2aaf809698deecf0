// Package vcf provides VCF file parsing functionality.
package vcf

import "strings"

// MissingValue is the VCF placeholder for an absent field.
const MissingValue = "."

// FilterPass is the FILTER value for calls that passed upstream filters.
const FilterPass = "PASS"

// Record represents a single site from a single-sample VCF file.
type Record struct {
	Chrom  string       // Chromosome name (e.g., "12", "chr12")
	Pos    int64        // 1-based genomic position
	ID     string       // Variant identifier (e.g., rs ID)
	Ref    string       // Reference allele
	Alt    []string     // Alternate alleles in file order
	Qual   *float64     // Quality score, nil when "."
	Filter string       // Filter status; "." is normalized to PASS
	Info   InfoMap      // INFO field key-value pairs
	Sample SampleFields // FORMAT keys zipped with the first sample column
}

// QualOrZero returns the quality score, treating an absent score as zero.
func (r *Record) QualOrZero() float64 {
	if r.Qual == nil {
		return 0
	}
	return *r.Qual
}

// IsPass returns true if the record's FILTER is PASS.
func (r *Record) IsPass() bool {
	return r.Filter == FilterPass
}


// InfoMap holds parsed INFO key-value pairs. Flag keys map to "true".
type InfoMap map[string]string

// Get returns the value for key and whether it was present.
func (m InfoMap) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Value returns the value for key, or "" when absent.
func (m InfoMap) Value(key string) string {
	return m[key]
}

// SampleFields maps FORMAT keys (GT, DP, AD, ...) to the sample's values.
type SampleFields map[string]string

// Get returns the value for key and whether it was present.
func (s SampleFields) Get(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

// Value returns the value for key, or "" when absent.
func (s SampleFields) Value(key string) string {
	return s[key]
}

// parseInfo parses the INFO field (key=value;flag;...) into a map.
func parseInfo(info string) InfoMap {
	result := make(InfoMap)
	if info == MissingValue {
		return result
	}

	for _, kv := range strings.Split(info, ";") {
		if kv == "" {
			continue
		}
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			// Flag-type INFO field
			result[key] = "true"
			continue
		}
		result[key] = value
	}

	return result
}

// parseSample zips the colon-delimited FORMAT keys with the sample values.
// Keys without a matching value get "".
func parseSample(format, sample string) SampleFields {
	if format == "" || sample == "" {
		return nil
	}

	keys := strings.Split(format, ":")
	values := strings.Split(sample, ":")
	result := make(SampleFields, len(keys))
	for i, k := range keys {
		if i < len(values) {
			result[k] = values[i]
		} else {
			result[k] = ""
		}
	}
	return result
}
