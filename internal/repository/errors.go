package repository

import (
	"errors"

	"github.com/danieln3m0/POSLas4as/internal/model"

	"gorm.io/gorm"
)

// translate maps gorm's sentinels to domain errors so services never see a
// driver error for a missing or duplicated row. Duplicates are only reported
// when the DB was opened with TranslateError.
func translate(err error, entity string, id any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.NotFound(entity, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return model.Conflict("%s %v already exists", entity, id)
	}
	return err
}

// conn returns tx when a transaction is in progress, db otherwise.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

func pageOffset(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	return (page - 1) * limit, limit
}
