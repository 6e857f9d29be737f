package specification

import "gorm.io/gorm"

// ByLevels keeps chunks of the given education levels
type ByLevels struct {
	Levels []string
}

func (s ByLevels) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("level IN ?", s.Levels)
}

// BySourceFile filters chunks loaded from one chunk file
type BySourceFile struct {
	File string
}

func (s BySourceFile) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source_file = ?", s.File)
}

// ContentSearch matches title or content case-insensitively
type ContentSearch struct {
	Query string
}

func (s ContentSearch) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
}
