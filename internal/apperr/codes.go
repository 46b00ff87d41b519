package apperr

// Codes returned to clients
const (
	CodeInvalidEmail          = "auth/invalid-email"
	CodeWeakPassword          = "auth/weak-password"
	CodeInvalidPassword       = "auth/invalid-password"
	CodeEmailInUse            = "auth/email-already-in-use"
	CodeInvalidCredential     = "auth/invalid-credential"
	CodeNoCurrentUser         = "auth/no-current-user"
	CodeInvalidToken          = "auth/invalid-token"
	CodeTokenRevoked          = "auth/token-revoked"
	CodeOperationNotAllowed   = "auth/operation-not-allowed"
	CodeOAuthFailed           = "auth/oauth-failed"
	CodeUserNotFound          = "auth/user-not-found"
	CodeInvalidProfile        = "auth/invalid-profile"
	CodeAuthProvider          = "auth/internal-error"
	CodeInvalidImage          = "storage/invalid-file"
	CodeFileTooLarge          = "storage/file-too-large"
	CodeUploadFailed          = "storage/upload-failed"
	CodeObjectNotFound        = "storage/object-not-found"
	CodeOrgInvalid            = "org/invalid-argument"
	CodeOrgNotFound           = "org/not-found"
	CodeOrgPermissionDenied   = "org/permission-denied"
	CodeOrgAlreadyExists      = "org/already-exists"
	CodeOrgProvider           = "org/internal-error"
	CodeJobPostInvalid        = "jobpost/invalid-argument"
	CodeJobPostOrgRequired    = "jobpost/organization-required"
	CodeJobPostNotFound       = "jobpost/not-found"
	CodeJobPostPermission     = "jobpost/permission-denied"
	CodeJobPostProvider       = "jobpost/internal-error"
	CodeJobInvalid            = "job/invalid-argument"
	CodeJobNotFound           = "job/not-found"
	CodeJobPermissionDenied   = "job/permission-denied"
	CodeJobProvider           = "job/internal-error"
	CodeRequestInvalid        = "request/invalid-argument"
	CodeIdempotencyInProgress = "request/idempotency-conflict"
)

// Messages shared with the web client
const (
	MsgNoCurrentUser    = "No user logged in"
	MsgPermissionDenied = "Permission denied"
	MsgJobNotFound      = "Job not found"
)
