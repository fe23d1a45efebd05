package models

// All returns every model registered for auto-migration, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Session{},
		&Material{},
		&MaterialPrice{},
		&Gemstone{},
		&Jewelry{},
		&JewelryImage{},
		&JewelryMaterial{},
		&JewelryGemstone{},
		&Blog{},
		&Request{},
		&RequestStatusLog{},
		&Quote{},
		&Transaction{},
		&Invoice{},
		&WorksOn{},
		&WorksOnStaff{},
		&Production{},
		&Design{},
		&Warranty{},
	}
}
