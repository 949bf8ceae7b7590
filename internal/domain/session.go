package domain

// Vendor какую игру крутит сессия.
type Vendor string

const (
	VendorFarm Vendor = "farm"
	VendorTap  Vendor = "tap"
)
