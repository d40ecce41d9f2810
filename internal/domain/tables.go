package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOprLog{},
	// Storefront
	&Profile{},
	&Category{},
	&Product{},
	&CartItem{},
	&Order{},
	&OrderItem{},
}
