package datagov

// Default resource identifiers on api.data.gov.in.
const (
	CropProductionResourceID = "35be999b-0208-4354-b557-f6ca9a5355de"
	RainfallResourceID       = "440dbca7-86ce-4bf6-b1af-83af2855757e"

	DefaultBaseURL = "https://api.data.gov.in/resource/"
)

// Dataset names surfaced in citations.
const (
	CropDatasetName     = "District-wise Crop Production"
	RainfallDatasetName = "Area-weighted Rainfall Data"
)

// Coverage ceilings: the most recent year each resource actually holds.
// Rainfall reaches a decade further than crop production, which is why a
// single logical query yields different absolute windows per dataset.
const (
	CropCoverageEnd     = 2005
	RainfallCoverageEnd = 2015
)

// Dataset is the immutable identity of one tabular resource.
type Dataset struct {
	Name        string
	ResourceID  string
	BaseURL     string
	CoverageEnd int
}

// URL returns the full resource endpoint.
func (d Dataset) URL() string {
	return d.BaseURL + d.ResourceID
}
