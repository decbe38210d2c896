package dashboard

const (
	ColumnUII   = "UII"
	ColumnTitle = "Investment Title"
)

// AgencySummary is one agency tile.
type AgencySummary struct {
	Name          string
	TotalSpending string
}

// Investment is one row of an agency's investment table, keyed by column
// header. Keys keep the order they were first set in. Setting a key twice
// keeps its position and overwrites its value, so a table with a repeated
// header ends up with the value of the last such column.
type Investment struct {
	keys   []string
	values map[string]string
}

func NewInvestment() *Investment {
	return &Investment{values: make(map[string]string)}
}

func (r *Investment) Set(key, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

func (r *Investment) Get(key string) string {
	return r.values[key]
}

func (r *Investment) Lookup(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the headers in first-seen order.
func (r *Investment) Keys() []string {
	return append([]string(nil), r.keys...)
}

func (r *Investment) Len() int {
	return len(r.keys)
}

func (r *Investment) UII() string {
	return r.values[ColumnUII]
}

func (r *Investment) Title() string {
	return r.values[ColumnTitle]
}

// Columns is the union of the rows' keys in first-seen order.
func Columns(rows []*Investment) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, r := range rows {
		for _, k := range r.keys {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			cols = append(cols, k)
		}
	}
	return cols
}

// DownloadLink is a business case detail link and the table row it came from.
type DownloadLink struct {
	Href string
	Row  int // 1-based table row
	UII  string
}
