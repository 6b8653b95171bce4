package board

import (
	"fmt"

	"kanban-api/domain"
)

// ModuleType selects the column catalog and status alias table of a board.
type ModuleType int

const (
	ModuleProjectTracking ModuleType = iota
	ModuleDesign
	ModuleVideoProduction
	ModuleSalesCRM
	ModuleLeadFunnel
	ModuleGeneric
)

var moduleNames = [...]string{
	ModuleProjectTracking: "project-tracking",
	ModuleDesign:          "design",
	ModuleVideoProduction: "video-production",
	ModuleSalesCRM:        "sales-crm",
	ModuleLeadFunnel:      "lead-funnel",
	ModuleGeneric:         "generic",
}

// Modules lists every module type in declaration order.
func Modules() []ModuleType {
	return []ModuleType{
		ModuleProjectTracking,
		ModuleDesign,
		ModuleVideoProduction,
		ModuleSalesCRM,
		ModuleLeadFunnel,
		ModuleGeneric,
	}
}

// Valid reports whether m is one of the declared module types.
func (m ModuleType) Valid() bool {
	return m >= ModuleProjectTracking && m <= ModuleGeneric
}

func (m ModuleType) String() string {
	if !m.Valid() {
		return fmt.Sprintf("module(%d)", int(m))
	}
	return moduleNames[m]
}

// ParseModuleType maps a module name to its ModuleType.
func ParseModuleType(name string) (ModuleType, error) {
	for i, n := range moduleNames {
		if n == name {
			return ModuleType(i), nil
		}
	}
	return ModuleGeneric, fmt.Errorf("%w: %q", domain.ErrUnknownModule, name)
}
