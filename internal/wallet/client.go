// Package wallet bridges digital-wallet single sign-on to the card management
// vendor's web service. The vendor call is mutually authenticated: a TLS
// client certificate plus basic auth credentials.
package wallet

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/dkellogg/advancepay-service/internal/config"
	"github.com/dkellogg/advancepay-service/internal/domain"
	customError "github.com/dkellogg/advancepay-service/pkg/errors"
)

const ssoResource = "rws/CardControlRWS_V0103/getSSOInfo"

// Client calls the card management vendor's SSO endpoint.
type Client struct {
	http   *retryablehttp.Client
	config config.WalletConfig
	logger *zap.Logger
}

// NewClient builds the vendor client. A TLS client certificate is loaded when
// the PEM files are configured.
func NewClient(cfg config.WalletConfig, logger *zap.Logger) (*Client, error) {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 2
	httpClient.Logger = nil
	httpClient.HTTPClient.Timeout = 30 * time.Second

	if cfg.CertificateFile != "" {
		certificate, err := tls.LoadX509KeyPair(cfg.CertificateFile, cfg.CertificateKeyFile)
		if err != nil {
			return nil, customError.WrapWalletVendorError(err)
		}

		httpClient.HTTPClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				Certificates: []tls.Certificate{certificate},
				MinVersion:   tls.VersionTLS12,
			},
		}
	}

	return &Client{
		http:   httpClient,
		config: cfg,
		logger: logger,
	}, nil
}

// Enabled reports whether the digital wallet is turned on for this deployment.
func (c *Client) Enabled() bool {
	return c.config.Enabled
}

// GetSSOPayload requests an SSO payload for the member's card. Vendor and
// transport failures come back as a response with a status description, never
// as a raw error.
func (c *Client) GetSSOPayload(ctx context.Context, accountNumber int64, accountIdentifier, deviceIdentifier string) (*domain.WalletSSOResponse, error) {
	if !c.config.Enabled {
		return nil, customError.ErrWalletDisabled
	}

	c.logger.Info("digital wallet sso request",
		zap.Int64("account_number", accountNumber),
		zap.String("account_identifier", accountIdentifier),
		zap.String("device_identifier", deviceIdentifier),
	)

	signature := domain.WalletHeaderSignature{
		SchemaVersion:         c.config.SchemaVersion,
		ClientID:              c.config.ClientID,
		System:                c.config.System,
		ClientApplicationName: c.config.ClientApplicationName,
		ClientVersion:         c.config.ClientVersion,
		ClientVendorName:      c.config.ClientVendorName,
		ClientAuditID:         newAuditID(),
		SubscriberRefID:       accountIdentifier,
		SSODeviceID:           deviceIdentifier,
	}

	vendor := c.callVendor(ctx, signature)

	if vendor.CsStatus.StatusCode != "0" {
		return &domain.WalletSSOResponse{
			StatusDescription: vendor.CsStatus.StatusDesc,
		}, nil
	}

	return &domain.WalletSSOResponse{
		SSOPayload:      vendor.SSOPayload,
		AndroidStoreURL: c.config.AndroidStoreURL,
		IOSStoreURL:     c.config.IOSStoreURL,
		URLScheme:       c.config.URLScheme,
		PackageName:     c.config.PackageName,
	}, nil
}

func (c *Client) callVendor(ctx context.Context, signature domain.WalletHeaderSignature) *domain.WalletVendorResponse {
	failure := &domain.WalletVendorResponse{
		CsStatus: domain.WalletVendorStatus{StatusCode: "1", StatusDesc: "failure"},
	}

	body, err := json.Marshal(signature)
	if err != nil {
		return failure
	}

	url := strings.TrimRight(c.config.EndpointAddress, "/") + "/" + ssoResource

	request, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		c.logger.Error("building wallet sso request", zap.Error(err))
		return failure
	}

	request.Header.Set("Accept", "application/json")
	request.Header.Set("Content-Type", "application/json")
	request.SetBasicAuth(c.config.UserID, c.config.Password)

	response, err := c.http.Do(request)
	if err != nil {
		c.logger.Error("calling wallet sso endpoint", zap.Error(err))
		return failure
	}
	defer response.Body.Close()

	var vendor domain.WalletVendorResponse
	if err := json.NewDecoder(response.Body).Decode(&vendor); err != nil {
		c.logger.Error("decoding wallet sso response", zap.Error(err))
		return failure
	}

	return &vendor
}

// newAuditID derives the vendor's 12-character client audit id.
func newAuditID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
