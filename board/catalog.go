package board

import (
	"sort"

	log "github.com/sirupsen/logrus"

	"kanban-api/domain"
)

// Catalog holds the column definitions and status alias tables of every
// module type. A Catalog is immutable once built and safe for concurrent use.
type Catalog struct {
	columns   map[ModuleType][]domain.Column
	aliases   map[ModuleType]map[string]string
	columnIDs map[ModuleType]map[string]struct{}
	logger    *log.Logger
}

// NewCatalog returns the built-in catalog. A nil logger falls back to the
// logrus standard logger.
func NewCatalog(logger *log.Logger) *Catalog {
	return newCatalog(builtinColumns, builtinAliases, logger)
}

func newCatalog(columns map[ModuleType][]domain.Column, aliases map[ModuleType]map[string]string, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = log.StandardLogger()
	}
	c := &Catalog{
		columns:   make(map[ModuleType][]domain.Column, len(columns)),
		aliases:   make(map[ModuleType]map[string]string, len(aliases)),
		columnIDs: make(map[ModuleType]map[string]struct{}, len(columns)),
		logger:    logger,
	}
	for m, cols := range columns {
		sorted := sortColumns(cols)
		ids := make(map[string]struct{}, len(sorted))
		for _, col := range sorted {
			ids[col.ID] = struct{}{}
		}
		c.columns[m] = sorted
		c.columnIDs[m] = ids
	}
	for m, table := range aliases {
		cp := make(map[string]string, len(table))
		for raw, id := range table {
			cp[raw] = id
		}
		c.aliases[m] = cp
	}
	return c
}

// resolve maps out-of-range module types to the generic module. The
// fallback is logged so hosts can spot misconfigured boards.
func (c *Catalog) resolve(m ModuleType) ModuleType {
	if m.Valid() {
		return m
	}
	c.logger.WithField("module", int(m)).Warn("unknown module type, using generic columns")
	return ModuleGeneric
}

// Columns returns the ordered columns of module m. The returned slice is a
// copy the caller may modify.
func (c *Catalog) Columns(m ModuleType) []domain.Column {
	m = c.resolve(m)
	cols := c.columns[m]
	out := make([]domain.Column, len(cols))
	copy(out, cols)
	return out
}

// Aliases returns a copy of the status alias table of module m.
func (c *Catalog) Aliases(m ModuleType) map[string]string {
	m = c.resolve(m)
	out := make(map[string]string, len(c.aliases[m]))
	for raw, id := range c.aliases[m] {
		out[raw] = id
	}
	return out
}

// Normalize maps a raw task status to the canonical column id of module m.
// Only exact matches count: the alias table is consulted first, then the
// status is accepted verbatim when it already is a column id. Anything else,
// including the empty status, is unmapped.
func (c *Catalog) Normalize(raw string, m ModuleType) (string, bool) {
	if raw == "" {
		return "", false
	}
	m = c.resolve(m)
	if id, ok := c.aliases[m][raw]; ok {
		return id, true
	}
	if _, ok := c.columnIDs[m][raw]; ok {
		return raw, true
	}
	return "", false
}

func sortColumns(cols []domain.Column) []domain.Column {
	out := make([]domain.Column, len(cols))
	copy(out, cols)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
