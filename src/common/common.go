package common

import (
	"errors"

	dbase "etix/src/db"

	"gorm.io/gorm"
)

func dbconn() *gorm.DB {
	return dbase.GetDb()
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
