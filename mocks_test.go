package board_test

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	board "github.com/goliatone/go-board"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockUserStore implements board.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*board.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*board.User)
	return user, args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*board.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*board.User)
	return user, args.Error(1)
}

// recordingMailer captures outgoing mail instead of delivering it.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

type sentMail struct {
	Recipient string
	Subject   string
	Body      string
}

func (m *recordingMailer) Send(ctx context.Context, recipient, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{Recipient: recipient, Subject: subject, Body: body})
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *recordingMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

// fakeRepo is an in-memory RepositoryManager for exercising command handlers
// without a database. Transactions run the callback against a zero bun.Tx,
// the fakes never touch it.
type fakeRepo struct {
	users         *fakeUsers
	posts         *fakePosts
	comments      *fakeComments
	categories    *fakeCategories
	verifications *fakeVerifications
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:         &fakeUsers{records: map[uuid.UUID]*board.User{}},
		posts:         &fakePosts{records: map[uuid.UUID]*board.Post{}},
		comments:      &fakeComments{records: map[uuid.UUID]*board.Comment{}},
		categories:    &fakeCategories{records: map[uuid.UUID]*board.Category{}},
		verifications: &fakeVerifications{records: map[string]*board.EmailVerification{}},
	}
}

func (f *fakeRepo) Validate() error { return nil }
func (f *fakeRepo) MustValidate()   {}

func (f *fakeRepo) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fn(ctx, bun.Tx{})
	}
}

func (f *fakeRepo) Users() board.Users                           { return f.users }
func (f *fakeRepo) Posts() board.Posts                           { return f.posts }
func (f *fakeRepo) Comments() board.Comments                     { return f.comments }
func (f *fakeRepo) Categories() board.Categories                 { return f.categories }
func (f *fakeRepo) EmailVerifications() board.EmailVerifications { return f.verifications }

type fakeUsers struct {
	mu      sync.Mutex
	records map[uuid.UUID]*board.User
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*board.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.records {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, board.NewNotFound("user")
}

func (f *fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*board.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.records[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, board.NewNotFound("user")
}

func (f *fakeUsers) Create(ctx context.Context, record *board.User) (*board.User, error) {
	return f.CreateTx(ctx, nil, record)
}

func (f *fakeUsers) CreateTx(ctx context.Context, tx bun.IDB, record *board.User) (*board.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	clone := *record
	f.records[record.ID] = &clone
	return record, nil
}

func (f *fakeUsers) Update(ctx context.Context, record *board.User) (*board.User, error) {
	return f.UpdateTx(ctx, nil, record)
}

func (f *fakeUsers) UpdateTx(ctx context.Context, tx bun.IDB, record *board.User) (*board.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[record.ID]; !ok {
		return nil, board.NewNotFound("user")
	}
	clone := *record
	f.records[record.ID] = &clone
	return record, nil
}

func (f *fakeUsers) SetEmailVerifiedTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.records[id]; ok {
		u.EmailVerified = true
	}
	return nil
}

func (f *fakeUsers) CheckOverlapTx(ctx context.Context, tx bun.IDB, email, nickname string, exclude uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.records {
		if u.ID == exclude {
			continue
		}
		if email != "" && u.Email == email {
			return board.ErrEmailTaken
		}
	}
	for _, u := range f.records {
		if u.ID == exclude {
			continue
		}
		if nickname != "" && u.Nickname == nickname {
			return board.ErrNicknameTaken
		}
	}
	return nil
}

func (f *fakeUsers) DeleteAccountTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[id]; !ok {
		return board.NewNotFound("user")
	}
	delete(f.records, id)
	return nil
}

type fakeVerifications struct {
	mu      sync.Mutex
	records map[string]*board.EmailVerification
}

func (f *fakeVerifications) GetByCode(ctx context.Context, code string) (*board.EmailVerification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.records[code]; ok {
		clone := *v
		return &clone, nil
	}
	return nil, board.ErrInvalidVerification
}

func (f *fakeVerifications) IssueOrRefreshTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, now time.Time) (*board.EmailVerification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for code, v := range f.records {
		if v.UserID == userID {
			delete(f.records, code)
		}
	}
	record := board.NewVerificationFor(userID, now)
	clone := *record
	f.records[record.Code] = &clone
	return record, nil
}

func (f *fakeVerifications) DeleteByCodeTx(ctx context.Context, tx bun.IDB, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, code)
	return nil
}

func (f *fakeVerifications) DeleteByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for code, v := range f.records {
		if v.UserID == userID {
			delete(f.records, code)
		}
	}
	return nil
}

// seed installs a verification row directly, bypassing the mint path.
func (f *fakeVerifications) seed(v *board.EmailVerification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *v
	f.records[v.Code] = &clone
}

func (f *fakeVerifications) byUser(userID uuid.UUID) *board.EmailVerification {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.records {
		if v.UserID == userID {
			clone := *v
			return &clone
		}
	}
	return nil
}

type fakePosts struct {
	mu      sync.Mutex
	records map[uuid.UUID]*board.Post
}

func (f *fakePosts) GetByID(ctx context.Context, id uuid.UUID) (*board.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.records[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, board.NewNotFound("post")
}

func (f *fakePosts) List(ctx context.Context, page board.Pagination, filter board.PostFilter) ([]*board.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*board.Post{}
	for _, p := range f.records {
		if filter.AuthorID != uuid.Nil && p.AuthorID != filter.AuthorID {
			continue
		}
		if filter.CategoryID != uuid.Nil && p.CategoryID != filter.CategoryID {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	if page.All {
		return out, nil
	}
	if page.Offset >= len(out) {
		return []*board.Post{}, nil
	}
	end := page.Offset + page.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[page.Offset:end], nil
}

func (f *fakePosts) Count(ctx context.Context, filter board.PostFilter) (int, error) {
	all, _ := f.List(ctx, board.Pagination{All: true}, filter)
	return len(all), nil
}

func (f *fakePosts) CreateTx(ctx context.Context, tx bun.IDB, record *board.Post) (*board.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	clone := *record
	f.records[record.ID] = &clone
	return record, nil
}

func (f *fakePosts) UpdateTx(ctx context.Context, tx bun.IDB, record *board.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[record.ID]; !ok {
		return board.NewNotFound("post")
	}
	clone := *record
	f.records[record.ID] = &clone
	return nil
}

func (f *fakePosts) DeleteTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[id]; !ok {
		return board.NewNotFound("post")
	}
	delete(f.records, id)
	return nil
}

type fakeComments struct {
	mu      sync.Mutex
	records map[uuid.UUID]*board.Comment
}

func (f *fakeComments) GetByID(ctx context.Context, id uuid.UUID) (*board.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.records[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, board.NewNotFound("comment")
}

func (f *fakeComments) ListByPost(ctx context.Context, postID uuid.UUID, page board.Pagination) ([]*board.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*board.Comment{}
	for _, c := range f.records {
		if c.PostID != postID {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (f *fakeComments) CountByPost(ctx context.Context, postID uuid.UUID) (int, error) {
	all, _ := f.ListByPost(ctx, postID, board.Pagination{All: true})
	return len(all), nil
}

func (f *fakeComments) CreateTx(ctx context.Context, tx bun.IDB, record *board.Comment) (*board.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	clone := *record
	f.records[record.ID] = &clone
	return record, nil
}

func (f *fakeComments) UpdateTx(ctx context.Context, tx bun.IDB, record *board.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[record.ID]; !ok {
		return board.NewNotFound("comment")
	}
	clone := *record
	f.records[record.ID] = &clone
	return nil
}

func (f *fakeComments) DeleteTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[id]; !ok {
		return board.NewNotFound("comment")
	}
	delete(f.records, id)
	return nil
}

type fakeCategories struct {
	mu      sync.Mutex
	records map[uuid.UUID]*board.Category
}

func (f *fakeCategories) GetByID(ctx context.Context, id uuid.UUID) (*board.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.records[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, board.NewNotFound("category")
}

func (f *fakeCategories) List(ctx context.Context) ([]*board.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*board.Category{}
	for _, c := range f.records {
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategories) Create(ctx context.Context, record *board.Category) (*board.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.records {
		if c.Name == record.Name {
			clone := *c
			return &clone, nil
		}
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	clone := *record
	f.records[record.ID] = &clone
	return record, nil
}

// MockContext mocks router.Context
type MockContext struct {
	mock.Mock
	NextCalled bool
}

func (m *MockContext) Next() error {
	m.NextCalled = true
	return nil
}

func (m *MockContext) Context() context.Context {
	args := m.Called()
	c, ok := args.Get(0).(context.Context)
	if !ok {
		panic("arg needs to be context.Context")
	}
	return c
}

func (m *MockContext) SetContext(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockContext) Path() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Method() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Body() []byte {
	args := m.Called()
	return args.Get(0).([]byte)
}

func (m *MockContext) Status(code int) router.Context {
	m.Called(code)
	return m
}

func (m *MockContext) SendString(s string) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockContext) Send(b []byte) error {
	args := m.Called(b)
	return args.Error(0)
}

func (m *MockContext) JSON(code int, val any) error {
	args := m.Called(code, val)
	return args.Error(0)
}

func (m *MockContext) NoContent(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) Render(name string, bind any, layout ...string) error {
	if len(layout) > 0 {
		args := m.Called(name, bind, layout[0])
		return args.Error(0)
	}
	args := m.Called(name, bind)
	return args.Error(0)
}

func (m *MockContext) Redirect(path string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(path, status)
		return args.Error(0)
	}
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockContext) RedirectToRoute(name string, data router.ViewContext, status ...int) error {
	if len(status) > 0 {
		args := m.Called(name, data, status[0])
		return args.Error(0)
	}
	args := m.Called(name, data)
	return args.Error(0)
}

func (m *MockContext) RedirectBack(fallback string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(fallback, status)
		return args.Error(0)
	}
	args := m.Called(fallback)
	return args.Error(0)
}

func (m *MockContext) SetHeader(key, val string) router.Context {
	m.Called(key, val)
	return m
}

func (m *MockContext) Header(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Get(key string, defaultValue any) any {
	args := m.Called(key, defaultValue)
	return args.Get(0)
}

func (m *MockContext) GetBool(key string, defaultValue bool) bool {
	args := m.Called(key, defaultValue)
	return args.Bool(0)
}

func (m *MockContext) GetInt(key string, def int) int {
	args := m.Called(key, def)
	return args.Int(0)
}

func (m *MockContext) Set(key string, val any) {
	m.Called(key, val)
}

func (m *MockContext) Bind(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindJSON(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindXML(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindQuery(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) CookieParser(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) Cookie(cookie *router.Cookie) {
	m.Called(cookie)
}

func (m *MockContext) Cookies(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Param(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) ParamsInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Query(key string, defaultValue string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockContext) QueryInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Queries() map[string]string {
	args := m.Called()
	return args.Get(0).(map[string]string)
}

func (m *MockContext) GetString(key string, defaultValue string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		m.Called(key, value[0])
		return nil
	}
	args := m.Called(key)
	return args.Get(0)
}

func (m *MockContext) OriginalURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) OnNext(callback func() error) {
	m.Called(callback)
}

func (m *MockContext) Referer() string {
	args := m.Called()
	return args.String(0)
}
