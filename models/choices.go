package models

// Choice is one allowed value of an enumerated field
type Choice struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Choices is a fixed, ordered set of allowed codes.
type Choices []Choice

// Valid reports whether code is one of the allowed codes.
func (c Choices) Valid(code string) bool {
	for _, choice := range c {
		if choice.Code == code {
			return true
		}
	}
	return false
}

// Label returns the display label for code, or code itself when unknown.
func (c Choices) Label(code string) string {
	for _, choice := range c {
		if choice.Code == code {
			return choice.Label
		}
	}
	return code
}

// Codes returns the allowed codes in order.
func (c Choices) Codes() []string {
	codes := make([]string, 0, len(c))
	for _, choice := range c {
		codes = append(codes, choice.Code)
	}
	return codes
}

var RaceChoices = Choices{
	{"W", "White"},
	{"B", "Black"},
	{"H", "Hispanic"},
	{"A", "Asian"},
	{"N", "Native American"},
	{"P", "Pacific Islander"},
	{"O", "Other"},
	{"U", "Unknown"},
}

var GenderChoices = Choices{
	{"M", "Male"},
	{"F", "Female"},
	{"N", "Non-binary"},
	{"U", "Unknown"},
}

var StateChoices = Choices{
	{"AL", "Alabama"},
	{"AK", "Alaska"},
	{"AZ", "Arizona"},
	{"AR", "Arkansas"},
	{"CA", "California"},
	{"CO", "Colorado"},
	{"CT", "Connecticut"},
	{"DE", "Delaware"},
	{"DC", "District of Columbia"},
	{"FL", "Florida"},
	{"GA", "Georgia"},
	{"HI", "Hawaii"},
	{"ID", "Idaho"},
	{"IL", "Illinois"},
	{"IN", "Indiana"},
	{"IA", "Iowa"},
	{"KS", "Kansas"},
	{"KY", "Kentucky"},
	{"LA", "Louisiana"},
	{"ME", "Maine"},
	{"MD", "Maryland"},
	{"MA", "Massachusetts"},
	{"MI", "Michigan"},
	{"MN", "Minnesota"},
	{"MS", "Mississippi"},
	{"MO", "Missouri"},
	{"MT", "Montana"},
	{"NE", "Nebraska"},
	{"NV", "Nevada"},
	{"NH", "New Hampshire"},
	{"NJ", "New Jersey"},
	{"NM", "New Mexico"},
	{"NY", "New York"},
	{"NC", "North Carolina"},
	{"ND", "North Dakota"},
	{"OH", "Ohio"},
	{"OK", "Oklahoma"},
	{"OR", "Oregon"},
	{"PA", "Pennsylvania"},
	{"RI", "Rhode Island"},
	{"SC", "South Carolina"},
	{"SD", "South Dakota"},
	{"TN", "Tennessee"},
	{"TX", "Texas"},
	{"UT", "Utah"},
	{"VT", "Vermont"},
	{"VA", "Virginia"},
	{"WA", "Washington"},
	{"WV", "West Virginia"},
	{"WI", "Wisconsin"},
	{"WY", "Wyoming"},
}
