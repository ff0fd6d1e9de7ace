// session.go contains the portal's request sequence. A Session owns its cookie jar, the portal
// keeps the selected unit and menu in that cookie session so a Session must never be shared
// between concurrent scrapes.

package netnutrition

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"

	"dineassist-backend/internal/components/assert"
	"dineassist-backend/internal/components/restyutil"
	"dineassist-backend/internal/components/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("dineassist-backend/internal/scrapers/netnutrition")

type Session struct {
	BaseUrl *url.URL

	http *resty.Client
	opts Options
	tel  telemetry.API
}

// NewSession creates a session with a fresh cookie jar and transport.
func NewSession(opts Options, tel telemetry.API) (*Session, error) {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.BaseUrl)

	opts = opts.withDefaults()

	baseUrl, err := url.Parse(strings.TrimSuffix(opts.BaseUrl, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return nil, fmt.Errorf("parse base url: %q is not absolute", opts.BaseUrl)
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(baseUrl.String())
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}

	origin := fmt.Sprintf("%s://%s", baseUrl.Scheme, baseUrl.Host)
	httpClient.SetHeader("user-agent", opts.UserAgent)
	httpClient.SetHeader("referer", baseUrl.String()+"/")
	httpClient.SetHeader("origin", origin)
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	httpClient.SetTimeout(opts.Timeout)

	if opts.Limiter != nil {
		limiter := opts.Limiter
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}

	restyutil.InstrumentClient(httpClient, tracer, opts.Capture)
	telemetry.InstrumentResty(httpClient, tel)

	return &Session{
		BaseUrl: baseUrl,
		http:    httpClient,
		opts:    opts,
		tel:     tel,
	}, nil
}

// Close releases the idle connections of the session's private transport.
func (s *Session) Close() {
	s.http.GetClient().CloseIdleConnections()
}

func checkStatus(endpoint string, res *resty.Response) error {
	code := res.StatusCode()
	if code < 200 || code >= 300 {
		return fmt.Errorf("%w: %s: status %s", ErrTransport, endpoint, res.Status())
	}
	return nil
}

func (s *Session) post(ctx context.Context, endpoint string, form map[string]string) (*resty.Response, error) {
	res, err := s.http.R().
		SetContext(ctx).
		SetHeader("x-requested-with", "XMLHttpRequest").
		SetFormData(form).
		Post(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTransport, endpoint, err)
	}
	err = checkStatus(endpoint, res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// WarmUp visits the portal root to obtain the session cookies every later POST depends on.
func (s *Session) WarmUp(ctx context.Context) error {
	endpoint := s.opts.Endpoints.Root

	res, err := s.http.R().
		SetContext(ctx).
		SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		Get(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTransport, endpoint, err)
	}
	err = checkStatus(endpoint, res)
	if err != nil {
		return err
	}

	s.tel.ReportDebug("session: warm up", len(s.http.GetClient().Jar.Cookies(s.BaseUrl)))
	return nil
}

// InitializePreferences posts the client preference payload. The portal tolerates its absence.
func (s *Session) InitializePreferences(ctx context.Context) error {
	_, err := s.post(ctx, s.opts.Endpoints.Preferences, s.opts.Preferences)
	return err
}

// SelectUnit binds the cookie session to a unit and returns the envelope the portal
// responds with (it carries the menu panel).
func (s *Session) SelectUnit(ctx context.Context, unitId int, purpose UnitPurpose) (Envelope, error) {
	endpoint := s.opts.Endpoints.SelectUnit
	res, err := s.post(ctx, endpoint, map[string]string{
		s.opts.UnitFields.For(purpose): strconv.Itoa(unitId),
	})
	if err != nil {
		return Envelope{}, err
	}
	return DecodeEnvelope(res.Body())
}

// SelectMenu requests the item panel of a menu, scoped to the unit last selected on this session.
func (s *Session) SelectMenu(ctx context.Context, menuId int) (Envelope, error) {
	endpoint := s.opts.Endpoints.SelectMenu
	res, err := s.post(ctx, endpoint, map[string]string{
		menuField: strconv.Itoa(menuId),
	})
	if err != nil {
		return Envelope{}, err
	}
	return DecodeEnvelope(res.Body())
}

// NutritionLabel requests the nutrition label of an item, it does not depend on the
// selected unit or menu.
func (s *Session) NutritionLabel(ctx context.Context, detailId int) (NutritionDocument, error) {
	endpoint := s.opts.Endpoints.NutritionLabel
	res, err := s.post(ctx, endpoint, map[string]string{
		detailField: strconv.Itoa(detailId),
	})
	if err != nil {
		return NutritionDocument{}, err
	}
	return NutritionDocument{
		ContentType: res.Header().Get("content-type"),
		Body:        res.Body(),
	}, nil
}
