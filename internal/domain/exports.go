package domain

import (
	interfaces "plantdoc/internal/domain/interfaces"
	types "plantdoc/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	CacheKey         = types.CacheKey
	CacheEntry       = types.CacheEntry
	Notification     = types.Notification
	NotificationKind = types.NotificationKind
	Fingerprint      = types.Fingerprint
	ImageFile        = types.ImageFile
	SelectedImage    = types.SelectedImage
	DiagnosisRecord  = types.DiagnosisRecord
	TrialStatus      = types.TrialStatus
	FailureBody      = types.FailureBody
	ServiceError     = types.ServiceError
	ErrorKind        = types.ErrorKind
	Cause            = types.Cause
	SubmissionError  = types.SubmissionError
	NoFileSelected   = types.NoFileSelected
	TrialAvailable   = types.TrialAvailable
	UpgradeNeeded    = types.UpgradeNeeded
	MonthlyLimit     = types.MonthlyLimit
	TrialActive      = types.TrialActive
	InvalidSubject   = types.InvalidSubject
	Generic          = types.Generic
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	DiagnosisService  = interfaces.DiagnosisService
	DiagnosisHistory  = interfaces.DiagnosisHistory
	TrialClient       = interfaces.TrialClient
	ServiceClient     = interfaces.ServiceClient
	Notifier          = interfaces.Notifier
	CacheInvalidator  = interfaces.CacheInvalidator
	CredentialStore   = interfaces.CredentialStore
	CacheStore        = interfaces.CacheStore
	CredentialService = interfaces.CredentialService
	HistoryService    = interfaces.HistoryService
	TrialService      = interfaces.TrialService
)

// Constants re-exported from the types subpackage.
const (
	CacheKeyAllDiagnoses    = types.CacheKeyAllDiagnoses
	CacheKeyRecentDiagnoses = types.CacheKeyRecentDiagnoses

	NotificationSuccess     = types.NotificationSuccess
	NotificationDestructive = types.NotificationDestructive

	CodeMonthlyLimitReached = types.CodeMonthlyLimitReached
	CodeTrialActive         = types.CodeTrialActive
	CodeTrialUsed           = types.CodeTrialUsed
	CodeUnauthorized        = types.CodeUnauthorized
	CodeInvalidImage        = types.CodeInvalidImage

	KindNoFileSelected = types.KindNoFileSelected
	KindTrialAvailable = types.KindTrialAvailable
	KindUpgradeNeeded  = types.KindUpgradeNeeded
	KindMonthlyLimit   = types.KindMonthlyLimit
	KindTrialActive    = types.KindTrialActive
	KindInvalidSubject = types.KindInvalidSubject
	KindGeneric        = types.KindGeneric
)

// Constructors and helpers re-exported from the types subpackage.
var (
	NewImageFile     = types.NewImageFile
	OpenImageFile    = types.OpenImageFile
	NewImageFileFunc = types.NewImageFileFunc
	KindOf           = types.KindOf
)
