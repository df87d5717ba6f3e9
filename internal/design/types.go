package design

// Style describes one interior style the service can apply to a room photo.
type Style struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Source is the uploaded room photo handed to the generation pipeline.
// It stays valid for the duration of a batch; all readers only read.
type Source struct {
	Name string
	MIME string
	Data []byte
}

// Generation is the product of one successful style transformation.
type Generation struct {
	Ref      string `json:"generated_image"`
	Analysis string `json:"analysis"`
}

// RoomAnalysis is the structured result of analyzing a room photo.
type RoomAnalysis struct {
	RoomType      string   `json:"room_type"`
	SizeEstimate  string   `json:"size_estimate"`
	CurrentLayout string   `json:"current_layout"`
	Issues        []string `json:"issues"`
	Strengths     []string `json:"strengths"`
}

// DesignGuide is a style-specific set of recommendations for a room.
type DesignGuide struct {
	Style                string       `json:"style"`
	Analysis             RoomAnalysis `json:"analysis"`
	Recommendations      []string     `json:"recommendations"`
	LayoutSuggestions    string       `json:"layout_suggestions"`
	ColorScheme          string       `json:"color_scheme"`
	FurnitureSuggestions []string     `json:"furniture_suggestions"`
}
