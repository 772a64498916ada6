package enums

import "fmt"

// DonationCategory labels what a gift is designated for.
type DonationCategory string

const (
	DonationCategoryTithe    DonationCategory = "tithe"
	DonationCategoryOffering DonationCategory = "offering"
	DonationCategoryBuilding DonationCategory = "building"
	DonationCategoryWelfare  DonationCategory = "welfare"
	DonationCategoryMission  DonationCategory = "mission"
)

var validDonationCategories = []DonationCategory{
	DonationCategoryTithe,
	DonationCategoryOffering,
	DonationCategoryBuilding,
	DonationCategoryWelfare,
	DonationCategoryMission,
}

// String implements fmt.Stringer.
func (c DonationCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known DonationCategory.
func (c DonationCategory) IsValid() bool {
	for _, candidate := range validDonationCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseDonationCategory converts raw input into a DonationCategory.
func ParseDonationCategory(value string) (DonationCategory, error) {
	for _, candidate := range validDonationCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid donation category %q", value)
}

// PaymentProvider identifies which hosted checkout handled a donation.
type PaymentProvider string

const (
	PaymentProviderPaystack    PaymentProvider = "paystack"
	PaymentProviderFlutterwave PaymentProvider = "flutterwave"
)

var validPaymentProviders = []PaymentProvider{
	PaymentProviderPaystack,
	PaymentProviderFlutterwave,
}

// String implements fmt.Stringer.
func (p PaymentProvider) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentProvider.
func (p PaymentProvider) IsValid() bool {
	for _, candidate := range validPaymentProviders {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentProvider converts raw input into a PaymentProvider.
func ParsePaymentProvider(value string) (PaymentProvider, error) {
	for _, candidate := range validPaymentProviders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment provider %q", value)
}

// DonationStatus tracks a donation from initiation to settlement.
type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusSucceeded DonationStatus = "succeeded"
	DonationStatusFailed    DonationStatus = "failed"
)

var validDonationStatuses = []DonationStatus{
	DonationStatusPending,
	DonationStatusSucceeded,
	DonationStatusFailed,
}

// String implements fmt.Stringer.
func (s DonationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known DonationStatus.
func (s DonationStatus) IsValid() bool {
	for _, candidate := range validDonationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}
