package checklist

// Phase names the build stage of a cabinet. Values double as the inferred
// cabinet status strings in the aggregate store.
type Phase string

const (
	PhaseQualityInspection  Phase = "quality_inspection"
	PhaseProjectInfoSheet   Phase = "project_info_sheet"
	PhaseMechanicalAssembly Phase = "mechanical_assembly"
	PhaseComponentAssembly  Phase = "component_assembly"
	PhaseFinalAssembly      Phase = "final_assembly"
	PhaseFinalDocumentation Phase = "final_documentation"
)

// PhaseForRef maps a completed reference number to the build phase it
// indicates. Reference 0 (or no completed rows) means the cabinet has not
// left incoming quality inspection.
func PhaseForRef(ref int) Phase {
	switch {
	case ref <= 0:
		return PhaseQualityInspection
	case ref <= 2:
		return PhaseProjectInfoSheet
	case ref <= 9:
		return PhaseMechanicalAssembly
	case ref <= 18:
		return PhaseComponentAssembly
	case ref <= 26:
		return PhaseFinalAssembly
	default:
		return PhaseFinalDocumentation
	}
}

// Phase reports the build phase of the sheet's cabinet.
func (s *Sheet) Phase() (Phase, error) {
	ref, ok, err := s.HighestCompletedRef()
	if err != nil {
		return "", err
	}
	if !ok {
		return PhaseQualityInspection, nil
	}
	return PhaseForRef(ref), nil
}
