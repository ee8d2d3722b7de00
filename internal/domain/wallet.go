package domain

// WalletHeaderSignature is the signed header payload sent to the card
// management vendor's SSO endpoint. Field names follow the vendor schema.
type WalletHeaderSignature struct {
	SchemaVersion         string `json:"schemaVersion"`
	ClientID              string `json:"clientId"`
	System                string `json:"system"`
	ClientApplicationName string `json:"clientApplicationName"`
	ClientVersion         string `json:"clientVersion"`
	ClientVendorName      string `json:"clientVendorName"`
	ClientAuditID         string `json:"clientAuditId"`
	SubscriberRefID       string `json:"subscriberRefID"`
	SSODeviceID           string `json:"ssoDeviceId"`
}

// WalletVendorStatus is the status block of a vendor SSO response.
// statusCode "0" means success.
type WalletVendorStatus struct {
	StatusCode string `json:"statusCode"`
	StatusDesc string `json:"statusDesc"`
}

// WalletVendorResponse is the vendor's SSO response envelope. The payload is
// opaque to this service.
type WalletVendorResponse struct {
	CsStatus   WalletVendorStatus `json:"csStatus"`
	SSOPayload string             `json:"ssoPayload"`
}

// WalletSSOResponse is what the mobile client receives. On success it carries
// the opaque SSO payload plus the app-store and deep-link settings; on failure
// only the vendor's status description.
type WalletSSOResponse struct {
	SSOPayload        string `json:"sso_payload,omitempty"`
	AndroidStoreURL   string `json:"android_store_url,omitempty"`
	IOSStoreURL       string `json:"ios_store_url,omitempty"`
	URLScheme         string `json:"url_scheme,omitempty"`
	PackageName       string `json:"package_name,omitempty"`
	StatusDescription string `json:"status_description,omitempty"`
}
