package models

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{}, &RefreshToken{}, &ActivityLog{},
		&Category{}, &Unit{}, &UnitImage{},
		&Review{}, &FAQ{}, &BlogPost{},
		&Subscription{}, &Interested{}, &Consultation{},
	}
}
