package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	IncomeSalary IncomeType = "salary"
	IncomeAsset  IncomeType = "asset"

	SpendPersonal ExpenditureKind = "personal"
	SpendOther    ExpenditureKind = "other"

	SpendStatic  ExpenditureClass = "static"
	SpendDynamic ExpenditureClass = "dynamic"

	StateHigh   SpendState = "high"
	StateMedium SpendState = "medium"
	StateLow    SpendState = "low"
)

func init() {
	// Persisted amounts are plain JSON numbers, matching the stored contract.
	decimal.MarshalJSONWithoutQuotes = true
}

type (
	IncomeType       string
	ExpenditureKind  string
	ExpenditureClass string
	SpendState       string

	// Asset is a value-holding resource that may passively generate
	// monthly income. MonthlyIncomeAmount is derived and set only when
	// IsMonthlyIncome and InterestRate are both present.
	Asset struct {
		ID                  int64            `json:"id"`
		Type                string           `json:"type"`
		Value               decimal.Decimal  `json:"value"`
		IsMonthlyIncome     bool             `json:"isMonthlyIncome"`
		InterestRate        *decimal.Decimal `json:"interestRate,omitempty"`
		MonthlyIncomeAmount *decimal.Decimal `json:"monthlyIncomeAmount,omitempty"`
		Description         string           `json:"description,omitempty"`
	}

	// Liability is a debt with a remaining principal. Its monthly payment
	// is never stored on the entity; it is recomputed into the
	// expenditureLiabilities side table from the current Amount.
	Liability struct {
		ID                int64           `json:"id"`
		Type              string          `json:"type"`
		Amount            decimal.Decimal `json:"amount"`
		InterestRate      decimal.Decimal `json:"interestRate"`
		HasMonthlyPayment bool            `json:"hasMonthlyPayment"`
		Description       string          `json:"description,omitempty"`
	}

	// Income is an immutable time-stamped income event. AssetType is set
	// iff Type is "asset" and links to an Asset by its category string.
	Income struct {
		ID          int64           `json:"id"`
		Type        IncomeType      `json:"type"`
		Amount      decimal.Decimal `json:"amount"`
		AssetType   string          `json:"assetType,omitempty"`
		Description string          `json:"description,omitempty"`
		Year        int             `json:"year"`
		Month       int             `json:"month"`
		Timestamp   int64           `json:"timestamp"`
	}

	// Expenditure is an immutable time-stamped expenditure event.
	// Name is set iff Kind is "personal"; LiabilityType iff "other".
	// State is set iff Class is "dynamic".
	Expenditure struct {
		ID            int64            `json:"id"`
		Kind          ExpenditureKind  `json:"expenditureType"`
		Name          string           `json:"name,omitempty"`
		LiabilityType string           `json:"liabilityType,omitempty"`
		Amount        decimal.Decimal  `json:"amount"`
		Class         ExpenditureClass `json:"type"`
		State         SpendState       `json:"state,omitempty"`
		Year          int              `json:"year"`
		Month         int              `json:"month"`
		Timestamp     int64            `json:"timestamp"`
	}

	// LiabilityPayment is one entry of the expenditureLiabilities side
	// table: the amortized monthly payment for a liability type.
	LiabilityPayment struct {
		Type   string          `json:"type"`
		Amount decimal.Decimal `json:"amount"`
	}
)

// ErrValidation is the root of every validation error; callers decide how
// to surface a declined operation by matching it with errors.Is.
var (
	ErrValidation = errors.New("validation failed")

	ErrMissingType          = fmt.Errorf("%w: type is required", ErrValidation)
	ErrNegativeAmount       = fmt.Errorf("%w: amount cannot be negative", ErrValidation)
	ErrNegativeRate         = fmt.Errorf("%w: interest rate cannot be negative", ErrValidation)
	ErrMissingAssetType     = fmt.Errorf("%w: asset type is required for asset income", ErrValidation)
	ErrMissingName          = fmt.Errorf("%w: name is required for personal expenditure", ErrValidation)
	ErrMissingLiabilityType = fmt.Errorf("%w: liability type is required for other expenditure", ErrValidation)
	ErrInvalidIncomeType    = fmt.Errorf("%w: invalid income type", ErrValidation)
	ErrInvalidKind          = fmt.Errorf("%w: invalid expenditure type", ErrValidation)
	ErrInvalidClass         = fmt.Errorf("%w: invalid expenditure class", ErrValidation)
	ErrInvalidState         = fmt.Errorf("%w: invalid spend state", ErrValidation)
	ErrInvalidMonth         = fmt.Errorf("%w: month must be between 1 and 12", ErrValidation)
	ErrInvalidYear          = fmt.Errorf("%w: invalid year", ErrValidation)
)

func (t IncomeType) Valid() bool {
	return t == IncomeSalary || t == IncomeAsset
}

func (k ExpenditureKind) Valid() bool {
	return k == SpendPersonal || k == SpendOther
}

func (c ExpenditureClass) Valid() bool {
	return c == SpendStatic || c == SpendDynamic
}

func (s SpendState) Valid() bool {
	return s == StateHigh || s == StateMedium || s == StateLow
}

func validPeriod(year, month int) error {
	if year <= 0 {
		return ErrInvalidYear
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

func (a Asset) Validate() error {
	if strings.TrimSpace(a.Type) == "" {
		return ErrMissingType
	}
	if a.Value.IsNegative() {
		return ErrNegativeAmount
	}
	if a.InterestRate != nil && a.InterestRate.IsNegative() {
		return ErrNegativeRate
	}
	return nil
}

func (l Liability) Validate() error {
	if strings.TrimSpace(l.Type) == "" {
		return ErrMissingType
	}
	if l.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if l.InterestRate.IsNegative() {
		return ErrNegativeRate
	}
	return nil
}

func (i Income) Validate() error {
	if !i.Type.Valid() {
		return ErrInvalidIncomeType
	}
	if i.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if i.Type == IncomeAsset && strings.TrimSpace(i.AssetType) == "" {
		return ErrMissingAssetType
	}
	return validPeriod(i.Year, i.Month)
}

func (e Expenditure) Validate() error {
	if !e.Kind.Valid() {
		return ErrInvalidKind
	}
	if e.Kind == SpendPersonal && strings.TrimSpace(e.Name) == "" {
		return ErrMissingName
	}
	if e.Kind == SpendOther && strings.TrimSpace(e.LiabilityType) == "" {
		return ErrMissingLiabilityType
	}
	if e.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if !e.Class.Valid() {
		return ErrInvalidClass
	}
	if e.Class == SpendDynamic && !e.State.Valid() {
		return ErrInvalidState
	}
	return validPeriod(e.Year, e.Month)
}
