package cardmarket

import (
	"cmwizard/internal/components/assert"
	"cmwizard/internal/components/telemetry"
	"context"
	"fmt"
	"net/url"
	"sync"
)

const (
	report_service_login         = "service.login"
	report_service_wants_lists   = "service.wants-lists"
	report_service_wants_list    = "service.wants-list"
	report_service_card          = "service.card"
	report_service_seller_offers = "service.seller-offers"
)

// Service holds at most one session and exposes the marketplace pages as
// typed records. Requests are serialized, a session never serves two
// requests at once.
type Service struct {
	lock    sync.Mutex
	session *Client
	tel     telemetry.API
}

func NewService(tel telemetry.API) *Service {
	assert.NotNil(tel)
	return &Service{
		tel: telemetry.NewScopedAPI("cardmarket", tel),
	}
}

type LoginOptions struct {
	Credentials Credentials
	Client      ClientOptions
}

// Login closes the current session, if any, and opens a new one. The new
// session is only kept when the login succeeds.
func (s *Service) Login(ctx context.Context, opts LoginOptions) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.closeSession()

	client, err := NewClient(opts.Client, s.tel)
	if err != nil {
		s.tel.ReportBroken(report_service_login, fmt.Errorf("create client: %w", err))
		return err
	}
	err = client.Login(ctx, opts.Credentials)
	if err != nil {
		client.Close()
		return err
	}

	s.session = client
	s.tel.ReportDebug(report_service_login, "logged in", opts.Credentials.Username)
	return nil
}

func (s *Service) Logout() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.closeSession()
}

func (s *Service) closeSession() {
	if s.session == nil {
		return
	}
	s.session.Close()
	s.session = nil
}

// Language returns the site language of the current session.
func (s *Service) Language() SiteLanguage {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.session == nil {
		return ""
	}
	return s.session.Language
}

func fetchPage[T any](
	ctx context.Context,
	s *Service,
	reportID string,
	endpoint string,
	query url.Values,
	parse func(body []byte, site SiteLanguage) (T, error),
) (T, error) {
	var empty T

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.session == nil {
		return empty, ErrNoSession
	}

	body, err := s.session.Get(ctx, endpoint, query)
	if err != nil {
		return empty, err
	}

	result, err := parse(body, s.session.Language)
	if err != nil {
		path := s.session.dump(dumpName(endpoint)+"_page_response.html", body)
		s.tel.ReportBroken(reportID, fmt.Errorf("parse: %w", err), endpoint)
		return empty, fmt.Errorf("%w: %s: %w, check %s", ErrUnexpectedPage, endpoint, err, path)
	}
	return result, nil
}

func (s *Service) WantsLists(ctx context.Context) (WantsLists, error) {
	return fetchPage(
		ctx, s, report_service_wants_lists,
		endpointWants, nil,
		func(body []byte, _ SiteLanguage) (WantsLists, error) {
			return ParseWantsLists(body)
		},
	)
}

func (s *Service) WantsList(ctx context.Context, id string) (WantsList, error) {
	return fetchPage(
		ctx, s, report_service_wants_list,
		wantsListEndpoint(id), nil,
		ParseWantsList,
	)
}

func (s *Service) Card(ctx context.Context, query CardQuery) (CardPage, error) {
	return fetchPage(
		ctx, s, report_service_card,
		cardEndpoint(query.ID), query.Values(),
		ParseCardPage,
	)
}

// SellerOffers fetches the first page of the singles `sellerID` offers out
// of the want-list `wantsListID`.
func (s *Service) SellerOffers(ctx context.Context, sellerID, wantsListID string) (SellerOffersPage, error) {
	return fetchPage(
		ctx, s, report_service_seller_offers,
		sellerOffersEndpoint(sellerID), url.Values{"idWantsList": {wantsListID}},
		ParseSellerOffersPage,
	)
}
