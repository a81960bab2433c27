// Package lifecycle implements the project lifecycle controller.
package lifecycle

import "github.com/bnema/senzup/internal/domain"

// BuildPlan computes the steps and collections of a run from the action,
// the project's state and the explicitly requested collections.
func BuildPlan(action domain.Action, state domain.ProjectState, requested []domain.CollectionID) domain.Plan {
	explicit := len(requested) > 0
	orDefault := func() []domain.CollectionID {
		if explicit {
			return requested
		}
		return []domain.CollectionID{domain.DefaultCollection}
	}

	switch action {
	case domain.ActionDeploy:
		return domain.Plan{Steps: []domain.Step{domain.StepDeploy}}

	case domain.ActionPackage:
		if !state.Exists() {
			return domain.Plan{
				Steps:       []domain.Step{domain.StepCreate, domain.StepPackage},
				Collections: orDefault(),
			}
		}
		if explicit {
			return domain.Plan{Steps: []domain.Step{domain.StepPackage}, Collections: requested}
		}
		return domain.Plan{
			Steps:       []domain.Step{domain.StepPackage},
			Collections: []domain.CollectionID{domain.CollectionAll},
		}

	default:
		return domain.Plan{Steps: []domain.Step{domain.StepCreate}, Collections: orDefault()}
	}
}
