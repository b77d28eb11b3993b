package dto

// ThemeRequest replaces the theme.
type ThemeRequest struct {
	PrimaryColor string `json:"primaryColor"`
	SidebarColor string `json:"sidebarColor"`
	BgColor      string `json:"bgColor"`
	FontFamily   string `json:"fontFamily"`
}

// LogoRequest carries a data:image URI.
type LogoRequest struct {
	DataURI string `json:"data_uri"`
}

// SimulateWhatsAppRequest is a fake inbound chat message.
type SimulateWhatsAppRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// AdviceRequest describes the customer situation.
type AdviceRequest struct {
	Situation string `json:"situation"`
}

// UploadDocumentRequest adds knowledge for the advisor.
type UploadDocumentRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}
