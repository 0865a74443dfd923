package config

import "time"

const (
	// Root sections reachable from the main menu
	SectionKnowledge = "Knowledge"
	SectionInfo      = "Info"
	SectionContacts  = "Contacts"

	// Category ids are the leading characters of a random UUID
	CategoryIDLength   = 5
	CategoryIDAttempts = 10

	// Telegram limits
	MaxTelegramMessageLen = 4096
	MaxMediaGroupSize     = 10
	MaxCategoryNameLen    = 64

	// Timeouts
	SendTimeout        = 30 * time.Second
	TelegramLogTimeout = 10 * time.Second

	// Throttle cleanup
	ThrottleCleanupInterval = 5 * time.Minute
)

// Sections lists the root sections in menu order.
var Sections = []string{SectionKnowledge, SectionInfo, SectionContacts}
