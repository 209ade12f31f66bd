package models

import (
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

// assignID fills a blank string primary key with a v4 UUID, matching the
// uuid_generate_v4() default of the hosted tables.
func assignID(scope *gorm.Scope) error {
	field, ok := scope.FieldByName("ID")
	if !ok || !field.IsBlank {
		return nil
	}
	return scope.SetColumn("ID", uuid.NewString())
}
