package model

// AllModels lists every model managed by AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&UserModel{},
		&RefreshTokenModel{},
		&EmailConfirmationTokenModel{},
		&BusinessModel{},
		&TransactionModel{},
		&EmailQueueModel{},
	}
}
