package board

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"kanban-api/domain"
)

// ErrInvalidCatalog is returned when a catalog override file is rejected.
var ErrInvalidCatalog = errors.New("invalid board catalog")

var stageIDPattern = regexp.MustCompile(`^[a-z0-9]+([_-][a-z0-9]+)*$`)

type catalogFile struct {
	Modules map[string]moduleOverride `yaml:"modules"`
}

type moduleOverride struct {
	Columns []domain.Column   `yaml:"columns"`
	Aliases map[string]string `yaml:"aliases"`
}

func newColumnValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("stage_id", func(fl validator.FieldLevel) bool {
		return stageIDPattern.MatchString(fl.Field().String())
	})
	return v
}

// LoadCatalogFile reads catalog overrides from the YAML file at path.
func LoadCatalogFile(path string, base *Catalog) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCatalog(f, base)
}

// LoadCatalog applies YAML overrides on top of base and returns a new
// Catalog. A module entry with columns replaces the module's column set;
// base aliases targeting a removed column are dropped. Aliases from the file
// are merged over the remaining base aliases and must target a known column.
//
//	modules:
//	  design:
//	    columns:
//	      - {id: briefing, title: Briefing, order: 0}
//	    aliases:
//	      rascunho: briefing
func LoadCatalog(r io.Reader, base *Catalog) (*Catalog, error) {
	if base == nil {
		return nil, fmt.Errorf("%w: base catalog is nil", ErrInvalidCatalog)
	}
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	columns := make(map[ModuleType][]domain.Column, len(base.columns))
	aliases := make(map[ModuleType]map[string]string, len(base.aliases))
	for m, cols := range base.columns {
		columns[m] = cols
	}
	for m, table := range base.aliases {
		aliases[m] = table
	}

	validate := newColumnValidator()
	for name, override := range file.Modules {
		m, err := ParseModuleType(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
		}
		cols := columns[m]
		if len(override.Columns) > 0 {
			cols = override.Columns
			if err := validateColumns(validate, m, cols); err != nil {
				return nil, err
			}
		}
		ids := make(map[string]struct{}, len(cols))
		for _, col := range cols {
			ids[col.ID] = struct{}{}
		}

		table := make(map[string]string, len(aliases[m])+len(override.Aliases))
		for raw, id := range aliases[m] {
			if _, ok := ids[id]; !ok {
				base.logger.WithFields(log.Fields{"module": m.String(), "alias": raw, "column": id}).
					Debug("dropping alias for removed column")
				continue
			}
			table[raw] = id
		}
		for raw, id := range override.Aliases {
			if raw == "" {
				return nil, fmt.Errorf("%w: module %s: empty alias", ErrInvalidCatalog, m)
			}
			if _, ok := ids[id]; !ok {
				return nil, fmt.Errorf("%w: module %s: alias %q targets unknown column %q", ErrInvalidCatalog, m, raw, id)
			}
			table[raw] = id
		}
		for raw, id := range table {
			if _, isColumn := ids[raw]; isColumn && raw != id {
				return nil, fmt.Errorf("%w: module %s: alias %q shadows column %q", ErrInvalidCatalog, m, raw, raw)
			}
		}
		columns[m] = cols
		aliases[m] = table
	}
	return newCatalog(columns, aliases, base.logger), nil
}

func validateColumns(validate *validator.Validate, m ModuleType, cols []domain.Column) error {
	seen := make(map[string]struct{}, len(cols))
	for i, col := range cols {
		if err := validate.Struct(col); err != nil {
			return fmt.Errorf("%w: module %s column %d: %v", ErrInvalidCatalog, m, i, err)
		}
		if _, dup := seen[col.ID]; dup {
			return fmt.Errorf("%w: module %s: duplicate column id %q", ErrInvalidCatalog, m, col.ID)
		}
		seen[col.ID] = struct{}{}
	}
	return nil
}
