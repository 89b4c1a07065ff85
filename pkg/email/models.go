package email

type EmailTemplateType string

const (
	EmailTemplateTypeMemberConfirmation EmailTemplateType = "member_confirmation"
	EmailTemplateTypeAdminAlert         EmailTemplateType = "admin_alert"

	templateCacheSize = 10
)

type Attachment struct {
	Filename string
	Content  []byte
	MimeType string
}

type SendEmailInput struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}
