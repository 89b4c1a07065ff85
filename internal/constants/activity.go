package constants

type ActivityAction string

const (
	ActivityMemberRegistered   ActivityAction = "member-registered"
	ActivityMemberVerified     ActivityAction = "member-verified"
	ActivityIDCardGenerated    ActivityAction = "id-card-generated"
	ActivityMemberPhotoUpdated ActivityAction = "member-photo-updated"
	ActivityAdminLogin         ActivityAction = "admin-login"
	ActivityBlogPostCreated    ActivityAction = "blog-post-created"
	ActivityBlogPostUpdated    ActivityAction = "blog-post-updated"
	ActivityBlogPostDeleted    ActivityAction = "blog-post-deleted"
)

type ResourceType string

const (
	ResourceMember   ResourceType = "member"
	ResourceUser     ResourceType = "user"
	ResourceBlogPost ResourceType = "blog_post"
)

func IsValidActivityAction(action string) bool {
	switch ActivityAction(action) {
	case ActivityMemberRegistered,
		ActivityMemberVerified,
		ActivityIDCardGenerated,
		ActivityMemberPhotoUpdated,
		ActivityAdminLogin,
		ActivityBlogPostCreated,
		ActivityBlogPostUpdated,
		ActivityBlogPostDeleted:
		return true
	default:
		return false
	}
}

// Verification methods recorded in member-verified details.
const (
	VerificationMethodQRScan      = "qr_scan"
	VerificationMethodManualEntry = "manual_entry"
	VerificationMethodStaffLookup = "staff_lookup"
)

// PublicVerificationMethod maps a caller-supplied method onto the values an
// anonymous verification may record. Anything else counts as a QR scan.
func PublicVerificationMethod(method string) string {
	switch method {
	case VerificationMethodQRScan, VerificationMethodManualEntry:
		return method
	default:
		return VerificationMethodQRScan
	}
}
