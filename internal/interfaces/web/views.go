package web

// Page is the data every template's layout reads
type Page struct {
	AppName  string
	Title    string
	SignedIn bool
}

// Row is one record in a table; Cells line up with the table's columns
type Row struct {
	ID    int64
	Cells []string
}

// Display is one labelled value on a details or delete page
type Display struct {
	Label string
	Value string
}

// Option is one choice in a select field
type Option struct {
	Value    string
	Label    string
	Selected bool
}

type listView struct {
	Page
	Entity  string
	Columns []string
	Rows    []Row
}

type relatedView struct {
	Title   string
	Entity  string
	Columns []string
	Rows    []Row
}

type detailsView struct {
	Page
	Entity  string
	ID      int64
	Fields  []Display
	Related []relatedView
}

type formField struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Required bool
	Options  []Option
	Error    string
}

type formView struct {
	Page
	Entity  string
	Action  string
	ID      int64
	Version int
	Fields  []formField
	Error   string
}

type deleteView struct {
	Page
	Entity string
	ID     int64
	Fields []Display
}

type errorView struct {
	Page
	Message   string
	RequestID string
}

type loginView struct {
	Page
	Email     string
	ReturnURL string
	Error     string
}
