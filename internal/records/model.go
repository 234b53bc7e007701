package records

// Label is one persisted classification label. Confidence is stored as a
// decimal string, matching the record store schema.
type Label struct {
	Name       string `json:"Name"`
	Confidence string `json:"Confidence"`
}

// AnalysisRecord is the persisted unit for one image. Filename is the primary
// key; writing a record for an existing filename replaces the prior record
// entirely.
type AnalysisRecord struct {
	Filename  string  `json:"filename"`
	Labels    []Label `json:"Labels"`
	Timestamp string  `json:"timestamp"`
	Branch    string  `json:"branch"`
}
