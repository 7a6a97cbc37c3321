package table

// Defaults applied by NewConfig.
const (
	DefaultIconBasePath = "/icons/jtags/icons.svg"
)

// DefaultPageSizeOptions are the page sizes offered by the size selector.
var DefaultPageSizeOptions = []int{5, 25, 50, 100}

// Column is one displayed column.
type Column struct {
	Field string // Field selector understood by the engine
	Label string // Header text
}

// ToolbarAction describes a button in the table toolbar.
// SelectionBased actions send the current selection (ids or filter) along
// with the request; Confirm actions ask before firing.
type ToolbarAction struct {
	Key            string
	Label          string
	Icon           string
	URL            string
	Method         string
	Confirm        bool
	ConfirmMessage string
	SelectionBased bool
	ShowLabel      bool
}

// Config is display metadata for one table. It has no behavior; handlers
// build it and templates read it.
type Config struct {
	BaseURL              string
	Columns              []Column
	IDField              string
	ShowSearch           bool
	SearchableFields     []string
	ShowCheckbox         bool
	ToolbarActions       []ToolbarAction
	ShowPaginationLabels bool
	IconBasePath         string
	PageSizeOptions      []int
}

// NewConfig builds a Config with the default icon sprite and page sizes.
func NewConfig(baseURL string, columns []Column, idField string, showSearch bool,
	searchable []string, showCheckbox bool, actions []ToolbarAction) Config {
	sizes := make([]int, len(DefaultPageSizeOptions))
	copy(sizes, DefaultPageSizeOptions)

	return Config{
		BaseURL:          baseURL,
		Columns:          columns,
		IDField:          idField,
		ShowSearch:       showSearch,
		SearchableFields: searchable,
		ShowCheckbox:     showCheckbox,
		ToolbarActions:   actions,
		IconBasePath:     DefaultIconBasePath,
		PageSizeOptions:  sizes,
	}
}

// IsSearchable reports whether field is offered in the search field selector.
func (c Config) IsSearchable(field string) bool {
	for _, f := range c.SearchableFields {
		if f == field {
			return true
		}
	}
	return false
}

// HasSelectionActions reports whether any toolbar action needs a selection,
// which is when row checkboxes are useful.
func (c Config) HasSelectionActions() bool {
	for _, a := range c.ToolbarActions {
		if a.SelectionBased {
			return true
		}
	}
	return false
}
