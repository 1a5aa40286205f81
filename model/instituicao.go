package model

// Instituicao represents a higher-education institution managed by the admin UI.
// JSON field names keep the legacy wire format the frontend expects.
type Instituicao struct {
	ID   uint   `gorm:"primaryKey" json:"_id"`
	Nome string `gorm:"type:varchar(255);not null" json:"nome"`
	// NomeChave is the collation key for Nome: lowercased and accent-folded,
	// so the unique index rejects names differing only in case or accents.
	NomeChave string `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
	UF        string `gorm:"type:varchar(2);not null;index" json:"uf"`
	QtdAlunos int64  `gorm:"not null" json:"qtdAlunos"`
}

// TableName keeps the collection name the original system used.
func (Instituicao) TableName() string {
	return "instituicoes"
}
