package netnutrition

import (
	"context"
	"fmt"

	"dineassist-backend/internal/components/telemetry"
)

const report_steps_optional = "steps.optional"

// Step is one request of the portal's interaction sequence. A failing required step aborts
// the sequence, a failing optional step is reported and skipped.
type Step struct {
	Name     string
	Required bool
	Run      func(ctx context.Context, s *Session) error
}

// RunSteps runs steps in order on a single session.
func RunSteps(ctx context.Context, s *Session, tel telemetry.API, steps ...Step) error {
	for _, step := range steps {
		err := ctx.Err()
		if err != nil {
			return fmt.Errorf("%s: %w", step.Name, err)
		}

		err = step.Run(ctx, s)
		if err == nil {
			continue
		}
		if step.Required {
			return fmt.Errorf("%s: %w", step.Name, err)
		}
		tel.ReportWarning(report_steps_optional, step.Name, err)
	}
	return nil
}

func WarmUpStep() Step {
	return Step{
		Name:     "warm up",
		Required: true,
		Run: func(ctx context.Context, s *Session) error {
			return s.WarmUp(ctx)
		},
	}
}

func PreferencesStep() Step {
	return Step{
		Name:     "initialize preferences",
		Required: false,
		Run: func(ctx context.Context, s *Session) error {
			return s.InitializePreferences(ctx)
		},
	}
}

// SelectUnitStep stores the portal's response in out when out is not nil.
func SelectUnitStep(unitId int, purpose UnitPurpose, out *Envelope) Step {
	return Step{
		Name:     fmt.Sprintf("select unit %d", unitId),
		Required: true,
		Run: func(ctx context.Context, s *Session) error {
			env, err := s.SelectUnit(ctx, unitId, purpose)
			if err != nil {
				return err
			}
			if out != nil {
				*out = env
			}
			return nil
		},
	}
}

func SelectMenuStep(menuId int, out *Envelope) Step {
	return Step{
		Name:     fmt.Sprintf("select menu %d", menuId),
		Required: true,
		Run: func(ctx context.Context, s *Session) error {
			env, err := s.SelectMenu(ctx, menuId)
			if err != nil {
				return err
			}
			if out != nil {
				*out = env
			}
			return nil
		},
	}
}

func NutritionLabelStep(detailId int, out *NutritionDocument) Step {
	return Step{
		Name:     fmt.Sprintf("nutrition label %d", detailId),
		Required: true,
		Run: func(ctx context.Context, s *Session) error {
			doc, err := s.NutritionLabel(ctx, detailId)
			if err != nil {
				return err
			}
			if out != nil {
				*out = doc
			}
			return nil
		},
	}
}
