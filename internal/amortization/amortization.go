package amortization

import (
	"fmt"
	"math"

	"github.com/epeers/eclengine/internal/models"
	"github.com/epeers/eclengine/internal/util"
)

// DefaultStepMonths is the calculation time-step length when a run does not
// override it: one quarter.
const DefaultStepMonths = 3

// ResidualMaturity computes the number of whole time steps between asOfDate
// and the exposure's contractual maturity. An exposure maturing within the
// current step yields 0. A maturity date behind the as-of date is a
// data-integrity problem in the input extract, not something to clamp away.
func ResidualMaturity(e *models.ExposureRecord, asOfDate models.FlexibleDate, stepMonths int) (int, error) {
	if stepMonths < 1 {
		return 0, fmt.Errorf("step length must be at least one month, got %d", stepMonths)
	}
	asOf := asOfDate.Time
	mat := e.MaturityDate

	months := util.WholeMonthsBetween(asOf, mat)
	if months < 0 {
		return 0, fmt.Errorf("exposure %s matured %s, before as-of date %s",
			e.ID, mat.Format("2006-01-02"), asOf.Format("2006-01-02"))
	}
	return months / stepMonths, nil
}

// Policy selects the EAD shape produced by Amortize. The calling variant picks
// the policy because EAD behavior differs materially between performing and
// defaulted exposures.
type Policy struct {
	Profile models.AmortizationProfile
}

// PolicyFor maps an exposure's contractual profile to an amortization policy,
// falling back to the given default when the exposure carries none.
func PolicyFor(e *models.ExposureRecord, fallback models.AmortizationProfile) Policy {
	if e.Profile != "" {
		return Policy{Profile: e.Profile}
	}
	return Policy{Profile: fallback}
}

// Amortize produces one EAD value per time step from 1 to residualMaturity.
// Zero residual maturity yields an empty schedule: the exposure matures within
// the current step and contributes no forward-looking ECL.
func Amortize(e *models.ExposureRecord, residualMaturity int, policy Policy, stepMonths int) ([]float64, error) {
	if residualMaturity < 0 {
		return nil, fmt.Errorf("exposure %s: negative residual maturity %d", e.ID, residualMaturity)
	}
	if residualMaturity == 0 {
		return nil, nil
	}

	switch policy.Profile {
	case models.ProfileStraightLine:
		return straightLine(e.Balance, residualMaturity), nil
	case models.ProfileBullet:
		return flat(e.Balance, residualMaturity), nil
	case models.ProfileRevolving:
		// Revolvers carry a constant drawn balance; the undrawn part enters
		// the calculation through the CCF term, not the schedule.
		return flat(e.Balance, residualMaturity), nil
	case models.ProfileAnnuity:
		return annuity(e.Balance, e.Rate, residualMaturity, stepMonths), nil
	}
	return nil, fmt.Errorf("exposure %s: unknown amortization profile %q", e.ID, policy.Profile)
}

// straightLine reduces principal by an equal amount each step, starting from
// the full balance at step 1.
func straightLine(balance float64, steps int) []float64 {
	out := make([]float64, steps)
	perStep := balance / float64(steps)
	for i := range out {
		ead := balance - perStep*float64(i)
		out[i] = math.Max(ead, 0)
	}
	return out
}

// flat repeats the full balance for every step (bullet repayment, revolvers,
// defaulted work-out balances).
func flat(balance float64, steps int) []float64 {
	out := make([]float64, steps)
	for i := range out {
		out[i] = balance
	}
	return out
}

// annuity amortizes with a constant payment: each step pays interest on the
// remaining balance plus a capital portion, so the EAD curve decreases slowly
// at first and faster toward maturity. A zero rate degenerates to straight-line.
func annuity(balance, annualRate float64, steps, stepMonths int) []float64 {
	if annualRate == 0 {
		return straightLine(balance, steps)
	}

	stepRate := annualRate / 12 * float64(stepMonths)
	payment := balance * stepRate / (1 - math.Pow(1+stepRate, -float64(steps)))

	out := make([]float64, steps)
	remaining := balance
	for i := 0; i < steps; i++ {
		out[i] = math.Max(remaining, 0)
		interest := remaining * stepRate
		remaining -= payment - interest
	}
	return out
}
