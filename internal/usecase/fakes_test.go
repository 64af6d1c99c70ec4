package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"naafe/internal/domain/entity"
	"naafe/pkg/errors"

	ws "naafe/internal/infrastructure/websocket"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

type fakeJobRequestRepo struct {
	mu   sync.Mutex
	jobs map[string]*entity.JobRequest
	seq  int
}

func newFakeJobRequestRepo(jobs ...*entity.JobRequest) *fakeJobRequestRepo {
	r := &fakeJobRequestRepo{jobs: make(map[string]*entity.JobRequest)}
	for _, j := range jobs {
		r.jobs[j.ID] = j
	}
	return r
}

func (r *fakeJobRequestRepo) Create(ctx context.Context, job *entity.JobRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.ID == "" {
		r.seq++
		job.ID = fmt.Sprintf("job-%d", r.seq)
	}
	job.Status = entity.JobStatusOpen
	job.CreatedAt = time.Now()
	copied := *job
	r.jobs[job.ID] = &copied
	return nil
}

func (r *fakeJobRequestRepo) GetByID(ctx context.Context, id string) (*entity.JobRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, errors.NotFound("Job request", nil)
	}
	copied := *job
	return &copied, nil
}

func (r *fakeJobRequestRepo) ListBySeekerID(ctx context.Context, seekerID string, limit, offset int) ([]*entity.JobRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.JobRequest
	for _, job := range r.jobs {
		if job.SeekerID == seekerID {
			copied := *job
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeJobRequestRepo) ListOpen(ctx context.Context, category string, limit, offset int) ([]*entity.JobRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.JobRequest
	for _, job := range r.jobs {
		if job.Status != entity.JobStatusOpen {
			continue
		}
		if category != "" && job.Category != category {
			continue
		}
		copied := *job
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeJobRequestRepo) Update(ctx context.Context, job *entity.JobRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *job
	r.jobs[job.ID] = &copied
	return nil
}

func (r *fakeJobRequestRepo) TransitionStatus(ctx context.Context, id, from, to string) (*entity.JobRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, errors.NotFound("Job request", nil)
	}
	if job.Status != from {
		return nil, errors.InvalidState("Job request is not " + from)
	}
	job.Status = to
	job.UpdatedAt = time.Now()
	copied := *job
	return &copied, nil
}

type fakeOfferRepo struct {
	mu               sync.Mutex
	offers           map[string]*entity.Offer
	jobs             *fakeJobRequestRepo
	rejectSiblingErr error
	seq              int
}

func newFakeOfferRepo(jobs *fakeJobRequestRepo, offers ...*entity.Offer) *fakeOfferRepo {
	r := &fakeOfferRepo{offers: make(map[string]*entity.Offer), jobs: jobs}
	for _, o := range offers {
		r.offers[o.ID] = o
	}
	return r
}

func (r *fakeOfferRepo) GetByID(ctx context.Context, id string) (*entity.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[id]
	if !ok {
		return nil, errors.NotFound("Offer", nil)
	}
	copied := *offer
	return &copied, nil
}

func (r *fakeOfferRepo) ListByJobRequestID(ctx context.Context, jobRequestID string) ([]*entity.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Offer
	for _, offer := range r.offers {
		if offer.JobRequestID == jobRequestID {
			copied := *offer
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) ListByProviderID(ctx context.Context, providerID string, limit, offset int) ([]*entity.Offer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Offer
	for _, offer := range r.offers {
		if offer.ProviderID == providerID {
			copied := *offer
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeOfferRepo) Update(ctx context.Context, offer *entity.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[offer.ID]; !ok {
		return errors.NotFound("Offer", nil)
	}
	copied := *offer
	r.offers[offer.ID] = &copied
	return nil
}

func (r *fakeOfferRepo) CreateIfNoActive(ctx context.Context, offer *entity.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.offers {
		if existing.JobRequestID == offer.JobRequestID &&
			existing.ProviderID == offer.ProviderID &&
			(existing.Status == entity.OfferStatusPending || existing.Status == entity.OfferStatusAccepted) {
			return errors.Conflict("You already have an active offer on this job request")
		}
	}
	if offer.ID == "" {
		r.seq++
		offer.ID = fmt.Sprintf("offer-%d", r.seq)
	}
	offer.Status = entity.OfferStatusPending
	offer.CreatedAt = time.Now()
	copied := *offer
	r.offers[offer.ID] = &copied
	return nil
}

func (r *fakeOfferRepo) TransitionStatus(ctx context.Context, id, from, to string) (*entity.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[id]
	if !ok {
		return nil, errors.NotFound("Offer", nil)
	}
	if offer.Status != from {
		return nil, errors.InvalidState("Offer is not " + from)
	}
	offer.Status = to
	offer.UpdatedAt = time.Now()
	copied := *offer
	return &copied, nil
}

func (r *fakeOfferRepo) AcceptPending(ctx context.Context, offerID string) (*entity.Offer, *entity.JobRequest, error) {
	r.mu.Lock()
	offer, ok := r.offers[offerID]
	if !ok {
		r.mu.Unlock()
		return nil, nil, errors.NotFound("Offer", nil)
	}
	if offer.Status != entity.OfferStatusPending {
		r.mu.Unlock()
		return nil, nil, errors.InvalidState("Offer is not pending")
	}
	jobRequestID := offer.JobRequestID
	providerID := offer.ProviderID
	r.mu.Unlock()

	r.jobs.mu.Lock()
	job, ok := r.jobs.jobs[jobRequestID]
	if !ok {
		r.jobs.mu.Unlock()
		return nil, nil, errors.NotFound("Job request", nil)
	}
	if job.Status != entity.JobStatusOpen {
		r.jobs.mu.Unlock()
		return nil, nil, errors.InvalidState("Job request is not open")
	}
	job.Status = entity.JobStatusAssigned
	job.AssignedTo = providerID
	jobCopy := *job
	r.jobs.mu.Unlock()

	r.mu.Lock()
	offer.Status = entity.OfferStatusAccepted
	offerCopy := *offer
	r.mu.Unlock()

	return &offerCopy, &jobCopy, nil
}

func (r *fakeOfferRepo) RejectSiblingPending(ctx context.Context, jobRequestID, acceptedOfferID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rejectSiblingErr != nil {
		return 0, r.rejectSiblingErr
	}
	rejected := 0
	for _, offer := range r.offers {
		if offer.JobRequestID == jobRequestID && offer.ID != acceptedOfferID && offer.Status == entity.OfferStatusPending {
			offer.Status = entity.OfferStatusRejected
			rejected++
		}
	}
	return rejected, nil
}

type fakeConversationRepo struct {
	mu             sync.Mutex
	conversations  map[string]*entity.Conversation
	messages       map[string][]*entity.Message
	getOrCreateErr error
	seq            int
}

func newFakeConversationRepo(conversations ...*entity.Conversation) *fakeConversationRepo {
	r := &fakeConversationRepo{
		conversations: make(map[string]*entity.Conversation),
		messages:      make(map[string][]*entity.Message),
	}
	for _, c := range conversations {
		r.conversations[c.ID] = c
	}
	return r
}

func (r *fakeConversationRepo) GetOrCreate(ctx context.Context, conv *entity.Conversation) (*entity.Conversation, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getOrCreateErr != nil {
		return nil, false, r.getOrCreateErr
	}
	if existing, ok := r.conversations[conv.JobRequestID]; ok {
		copied := *existing
		return &copied, false, nil
	}
	conv.ID = conv.JobRequestID
	conv.IsActive = true
	conv.CreatedAt = time.Now()
	if conv.UnreadCount == nil {
		conv.UnreadCount = map[string]int{conv.SeekerID: 0, conv.ProviderID: 0}
	}
	copied := *conv
	r.conversations[conv.ID] = &copied
	result := *conv
	return &result, true, nil
}

func (r *fakeConversationRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	copied := *conv
	return &copied, nil
}

func (r *fakeConversationRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Conversation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Conversation
	for _, conv := range r.conversations {
		if conv.HasParticipant(userID) {
			copied := *conv
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeConversationRepo) Update(ctx context.Context, conv *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *conv
	r.conversations[conv.ID] = &copied
	return nil
}

func (r *fakeConversationRepo) AppendMessage(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[message.ConversationID]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	if message.ID == "" {
		r.seq++
		message.ID = fmt.Sprintf("msg-%d", r.seq)
	}
	message.CreatedAt = time.Now()
	copied := *message
	r.messages[message.ConversationID] = append(r.messages[message.ConversationID], &copied)

	if conv.UnreadCount == nil {
		conv.UnreadCount = make(map[string]int)
	}
	conv.UnreadCount[message.ReceiverID]++
	conv.LastMessage = &entity.LastMessage{
		Content:  message.Content,
		SenderID: message.SenderID,
		SentAt:   message.CreatedAt,
	}
	conv.UpdatedAt = message.CreatedAt
	return nil
}

func (r *fakeConversationRepo) GetMessagesByConversation(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[conversationID]
	out := make([]*entity.Message, 0, len(msgs))
	for _, m := range msgs {
		copied := *m
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeConversationRepo) MarkMessagesAsRead(ctx context.Context, conversationID, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[conversationID]
	if !ok {
		return 0, errors.NotFound("Conversation", nil)
	}
	count := 0
	now := time.Now()
	for _, m := range r.messages[conversationID] {
		if m.ReceiverID == userID && !m.Read {
			m.Read = true
			m.ReadAt = &now
			count++
		}
	}
	if conv.UnreadCount == nil {
		conv.UnreadCount = make(map[string]int)
	}
	conv.UnreadCount[userID] = 0
	return count, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*entity.Notification
	createErr     error
	seq           int
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	notification.ID = fmt.Sprintf("notif-%d", r.seq)
	notification.CreatedAt = time.Now()
	copied := *notification
	r.notifications = append(r.notifications, &copied)
	return nil
}

func (r *fakeNotificationRepo) ListByUserID(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		copied := *n
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID, notifType string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.notifications {
		if n.UserID != userID || n.IsRead {
			continue
		}
		if notifType != "" && n.Type != notifType {
			continue
		}
		n.IsRead = true
		count++
	}
	return count, nil
}

func (r *fakeNotificationRepo) byUser(userID string) []*entity.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			copied := *n
			out = append(out, &copied)
		}
	}
	return out
}

type sentEvent struct {
	UserID string
	Event  ws.Event
}

type fakePusher struct {
	mu     sync.Mutex
	online map[string]bool
	sent   []sentEvent
}

func newFakePusher(online ...string) *fakePusher {
	p := &fakePusher{online: make(map[string]bool)}
	for _, userID := range online {
		p.online[userID] = true
	}
	return p
}

func (p *fakePusher) SendToUser(userID string, event ws.Event) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, sentEvent{UserID: userID, Event: event})
	return p.online[userID]
}

func (p *fakePusher) IsOnline(userID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online[userID]
}

func (p *fakePusher) SendToConversation(conversationID string, event ws.Event, exceptUserID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, sentEvent{UserID: "room:" + conversationID, Event: event})
}

func (p *fakePusher) eventsFor(userID string) []ws.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []ws.Event
	for _, s := range p.sent {
		if s.UserID == userID {
			out = append(out, s.Event)
		}
	}
	return out
}
