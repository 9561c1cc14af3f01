package graph

import (
	"fmt"

	"github.com/chazu/tenon/pkg/solid"
)

// ---------------------------------------------------------------------------
// Tier 2 — Geometric validation (errors + warnings)
// ---------------------------------------------------------------------------

// validateGeometry runs all Tier 2 geometric checks.
// Returns errors (blocking) and warnings (advisory) separately.
func validateGeometry(g *DesignGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	e, w := validateDimensions(g)
	errs = append(errs, e...)
	warnings = append(warnings, w...)

	errs = append(errs, validatePlacements(g)...)
	errs = append(errs, validateConnectorNames(g)...)

	return errs, warnings
}

// validateDimensions checks that primitive dimensions are in domain.
// Negative values are errors; zero values are legal degenerate
// geometry and only draw a warning.
func validateDimensions(g *DesignGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	addErr := func(id NodeID, format string, args ...interface{}) {
		errs = append(errs, ValidationError{
			NodeID:   id,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}
	addWarn := func(id NodeID, format string, args ...interface{}) {
		warnings = append(warnings, ValidationWarning{
			NodeID:  id,
			Message: fmt.Sprintf(format, args...),
		})
	}

	for _, node := range g.Nodes {
		switch d := node.Data.(type) {
		case CubeData:
			if err := solid.CheckSize(d.Size); err != nil {
				addErr(node.ID, "cube size: %v", err)
			} else if d.Size.X == 0 || d.Size.Y == 0 || d.Size.Z == 0 {
				addWarn(node.ID, "cube has a zero dimension and will produce no geometry")
			}

		case CylinderData:
			if d.Height < 0 {
				addErr(node.ID, "cylinder height is %.4f, must be non-negative", d.Height)
			}
			if d.BottomRadius < 0 || d.TopRadius < 0 {
				addErr(node.ID, "cylinder radii are (%.4f, %.4f), must be non-negative", d.BottomRadius, d.TopRadius)
			}
			if d.Segments < 3 {
				addErr(node.ID, "cylinder segment count is %d, must be at least 3", d.Segments)
			}
			if d.Height == 0 || (d.BottomRadius == 0 && d.TopRadius == 0) {
				addWarn(node.ID, "cylinder is degenerate and will produce no geometry")
			}

		case SphereData:
			if d.Radius < 0 {
				addErr(node.ID, "sphere radius is %.4f, must be non-negative", d.Radius)
			}
			if d.Segments < 3 {
				addErr(node.ID, "sphere segment count is %d, must be at least 3", d.Segments)
			}
			if d.Radius == 0 {
				addWarn(node.ID, "sphere is degenerate and will produce no geometry")
			}
		}
	}

	return errs, warnings
}

// validatePlacements checks alignment codes and orientation vectors on
// every primitive payload.
func validatePlacements(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	check := func(id NodeID, pl Placement) {
		if pl.Align != nil {
			if err := pl.Align.Validate(); err != nil {
				errs = append(errs, ValidationError{
					NodeID:   id,
					Message:  err.Error(),
					Severity: SeverityError,
				})
			}
		}
		if pl.Orient != nil {
			if _, _, err := pl.Orient.Rotation(); err != nil {
				errs = append(errs, ValidationError{
					NodeID:   id,
					Message:  err.Error(),
					Severity: SeverityError,
				})
			}
		}
	}

	for _, node := range g.Nodes {
		switch d := node.Data.(type) {
		case CubeData:
			check(node.ID, d.Placement)
		case CylinderData:
			check(node.ID, d.Placement)
		case SphereData:
			check(node.ID, d.Placement)
		}
	}

	return errs
}

// validateConnectorNames checks that each attach node names a
// connector its parent primitive actually publishes.
func validateConnectorNames(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Nodes {
		ad, ok := node.Data.(AttachData)
		if !ok || ad.Connector == "" || len(node.Children) == 0 {
			continue
		}
		parent := g.Nodes[node.Children[0]]
		if parent == nil {
			continue
		}

		valid := false
		switch parent.Data.(type) {
		case CubeData:
			_, err := solid.ParseAlign(ad.Connector)
			valid = err == nil && ad.Connector != "center"
		case CylinderData:
			switch ad.Connector {
			case "top", "bottom", "side0", "side90", "side180", "side270":
				valid = true
			}
		case SphereData:
			switch ad.Connector {
			case "top", "bottom", "left", "right", "front", "back":
				valid = true
			}
		default:
			continue
		}

		if !valid {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("connector %q is not published by the parent primitive", ad.Connector),
				Severity: SeverityError,
			})
		}
	}

	return errs
}
