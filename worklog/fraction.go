package worklog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	DefaultWorkdayHours = 8.0
	DefaultRoundingStep = 0.05
)

var (
	ErrNonPositiveDuration = errors.New("end time must be after start time")

	maxFraction   = decimal.NewFromInt(1)
	minutesInHour = decimal.NewFromInt(60)
)

// Calculator converts a time range into a day-fraction of a configured workday.
type Calculator struct {
	WorkdayHours decimal.Decimal
	Step         decimal.Decimal
}

// NewCalculator builds a Calculator; zero values fall back to 8 hours and 0.05.
func NewCalculator(workdayHours, step float64) (Calculator, error) {
	if workdayHours == 0 {
		workdayHours = DefaultWorkdayHours
	}
	if step == 0 {
		step = DefaultRoundingStep
	}
	calc := Calculator{
		WorkdayHours: decimal.NewFromFloat(workdayHours),
		Step:         decimal.NewFromFloat(step),
	}
	if err := calc.check(); err != nil {
		return Calculator{}, err
	}
	return calc, nil
}

// DefaultCalculator uses an 8 hour workday and a 0.05 rounding step.
func DefaultCalculator() Calculator {
	return Calculator{
		WorkdayHours: decimal.NewFromFloat(DefaultWorkdayHours),
		Step:         decimal.NewFromFloat(DefaultRoundingStep),
	}
}

func (c Calculator) check() error {
	if !c.WorkdayHours.IsPositive() {
		return fmt.Errorf("workday hours must be > 0, got %s", c.WorkdayHours)
	}
	if !c.Step.IsPositive() || c.Step.GreaterThan(maxFraction) {
		return fmt.Errorf("rounding step must be > 0 and <= 1, got %s", c.Step)
	}
	return nil
}

// DayFraction returns (end-start)/workday rounded up to the next multiple of
// Step and capped at 1.0. A raw value already on a step boundary is kept.
func (c Calculator) DayFraction(start, end Clock) (decimal.Decimal, error) {
	if err := c.check(); err != nil {
		return decimal.Zero, err
	}
	elapsed := int64(end - start)
	if elapsed <= 0 {
		return decimal.Zero, ErrNonPositiveDuration
	}

	// steps = ceil(elapsed / (workday minutes * step)), kept in decimal so that
	// exact multiples do not pick up an extra step from float error.
	stepMinutes := c.WorkdayHours.Mul(minutesInHour).Mul(c.Step)
	steps := decimal.NewFromInt(elapsed).Div(stepMinutes).Ceil()

	fraction := steps.Mul(c.Step)
	if fraction.GreaterThan(maxFraction) {
		return maxFraction, nil
	}
	return fraction, nil
}

// RawFraction returns the unrounded (end-start)/workday ratio.
func (c Calculator) RawFraction(start, end Clock) decimal.Decimal {
	if !c.WorkdayHours.IsPositive() {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(end - start)).Div(c.WorkdayHours.Mul(minutesInHour))
}

// Hours converts a day-fraction back into hours of the configured workday.
func (c Calculator) Hours(fraction decimal.Decimal) decimal.Decimal {
	return fraction.Mul(c.WorkdayHours)
}

// ElapsedHours returns end-start in hours.
func ElapsedHours(start, end Clock) decimal.Decimal {
	return decimal.NewFromInt(int64(end - start)).Div(minutesInHour)
}
