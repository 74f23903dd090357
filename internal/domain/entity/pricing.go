package entity

// Platform setting keys. Values are stored as integer XAF amounts, except
// free_contact which is a 0/1 toggle.
const (
	SettingListingPrice = "listing_price"
	SettingPassPrice    = "pass_price"
	SettingFreeContact  = "free_contact"
)

// Default prices in XAF. The single-unlock tier is not an admin setting;
// it is fixed, matching the paywall options offered to seekers.
const (
	DefaultListingPrice int64 = 5000
	DefaultPassPrice    int64 = 2000
	UnlockPrice         int64 = 500
)

type PlatformSetting struct {
	ID    string `bson:"_id"`
	Value int64  `bson:"value"`
}

// Pricing is the resolved platform pricing configuration, with defaults
// applied for any key that has no override row.
type Pricing struct {
	ListingPrice int64 `json:"listing_price"`
	PassPrice    int64 `json:"pass_price"`
	FreeContact  int64 `json:"free_contact"`
}

func DefaultPricing() Pricing {
	return Pricing{
		ListingPrice: DefaultListingPrice,
		PassPrice:    DefaultPassPrice,
		FreeContact:  0,
	}
}

// FreeContactEnabled reports whether the platform-wide free contact override
// is active.
func (p Pricing) FreeContactEnabled() bool {
	return p.FreeContact != 0
}
