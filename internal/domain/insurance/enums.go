package insurance

import "github.com/kailas-cloud/insurefilter/internal/domain/enum"

// Company is the stored company key (e.g. SAMSUNG_LIFE).
type Company string

// Companies is the closed set of insurers, keyed by their display names.
var Companies = enum.MustSet(
	enum.Member[Company]{Value: "SAMSUNG_LIFE", Label: "삼성생명"},
	enum.Member[Company]{Value: "HANWHA_LIFE", Label: "한화생명"},
	enum.Member[Company]{Value: "KYOBO_LIFE", Label: "교보생명"},
	enum.Member[Company]{Value: "SHINHAN_LIFE", Label: "신한라이프"},
	enum.Member[Company]{Value: "NH_LIFE", Label: "NH농협생명"},
	enum.Member[Company]{Value: "KB_LIFE", Label: "KB라이프생명"},
	enum.Member[Company]{Value: "MIRAE_ASSET_LIFE", Label: "미래에셋생명"},
	enum.Member[Company]{Value: "DB_LIFE", Label: "DB생명"},
	enum.Member[Company]{Value: "HEUNGKUK_LIFE", Label: "흥국생명"},
	enum.Member[Company]{Value: "DONGYANG_LIFE", Label: "동양생명"},
	enum.Member[Company]{Value: "LINA_LIFE", Label: "라이나생명"},
	enum.Member[Company]{Value: "AIA_LIFE", Label: "AIA생명"},
	enum.Member[Company]{Value: "METLIFE", Label: "메트라이프생명"},
	enum.Member[Company]{Value: "SAMSUNG_FIRE", Label: "삼성화재"},
	enum.Member[Company]{Value: "HYUNDAI_MARINE", Label: "현대해상"},
	enum.Member[Company]{Value: "DB_INSURANCE", Label: "DB손해보험"},
	enum.Member[Company]{Value: "KB_INSURANCE", Label: "KB손해보험"},
	enum.Member[Company]{Value: "MERITZ_FIRE", Label: "메리츠화재"},
)

// Gender selects the premium column used for price comparisons.
type Gender string

const (
	// Man selects premiumMale.
	Man Gender = "man"
	// Woman selects premiumFemale.
	Woman Gender = "woman"
)

// Genders is the closed set of genders.
var Genders = enum.MustSet(
	enum.Member[Gender]{Value: Man, Label: "man"},
	enum.Member[Gender]{Value: Woman, Label: "woman"},
)

// RegistrationType is how a product is sold.
type RegistrationType string

const (
	// RegistrationOnline is direct online sign-up.
	RegistrationOnline RegistrationType = "ONLINE"
	// RegistrationOffline is face-to-face sign-up with an agent.
	RegistrationOffline RegistrationType = "OFFLINE"
	// RegistrationTelemarketing is sign-up by phone.
	RegistrationTelemarketing RegistrationType = "TELEMARKETING"
)

// RegistrationTypes is the closed set of registration types.
var RegistrationTypes = enum.MustSet(
	enum.Member[RegistrationType]{Value: RegistrationOnline, Label: "온라인"},
	enum.Member[RegistrationType]{Value: RegistrationOffline, Label: "대면"},
	enum.Member[RegistrationType]{Value: RegistrationTelemarketing, Label: "전화"},
)

// Type is the insurance product category.
type Type string

// Types is the closed set of product categories.
var Types = enum.MustSet(
	enum.Member[Type]{Value: "CANCER", Label: "암보험"},
	enum.Member[Type]{Value: "HEALTH", Label: "건강보험"},
	enum.Member[Type]{Value: "WHOLE_LIFE", Label: "종신보험"},
	enum.Member[Type]{Value: "TERM_LIFE", Label: "정기보험"},
	enum.Member[Type]{Value: "DENTAL", Label: "치아보험"},
	enum.Member[Type]{Value: "ACCIDENT", Label: "상해보험"},
	enum.Member[Type]{Value: "ANNUITY", Label: "연금보험"},
)
