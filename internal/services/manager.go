package services

import (
	"github.com/mcadept/placement-portal/internal/cache"
	"github.com/mcadept/placement-portal/internal/events"
	"github.com/mcadept/placement-portal/internal/repositories"
	"github.com/mcadept/placement-portal/internal/utils"
	"github.com/mcadept/placement-portal/internal/validator"
)

type serviceManager struct {
	test        TestService
	attempt     AttemptService
	leaderboard LeaderboardService
	export      ExportService
	job         JobService
	blog        BlogService
	material    MaterialService
	video       VideoService
}

// NewServiceManager wires every service against the shared repository,
// validator, cache and event publisher. The cache and publisher may be nil;
// the services then skip caching and notifications.
func NewServiceManager(
	repo repositories.Repository,
	v *validator.Validator,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger utils.Logger,
) ServiceManager {
	leaderboard := NewLeaderboardService(repo, cacheService, logger)

	return &serviceManager{
		test:        NewTestService(repo, v, publisher, logger),
		attempt:     NewAttemptService(repo, v, cacheService, publisher, logger),
		leaderboard: leaderboard,
		export:      NewExportService(repo, leaderboard, logger),
		job:         NewJobService(repo, v, publisher, logger),
		blog:        NewBlogService(repo, v, publisher, logger),
		material:    NewMaterialService(repo, v, logger),
		video:       NewVideoService(repo, v, logger),
	}
}

func (m *serviceManager) Test() TestService               { return m.test }
func (m *serviceManager) Attempt() AttemptService         { return m.attempt }
func (m *serviceManager) Leaderboard() LeaderboardService { return m.leaderboard }
func (m *serviceManager) Export() ExportService           { return m.export }
func (m *serviceManager) Job() JobService                 { return m.job }
func (m *serviceManager) Blog() BlogService               { return m.blog }
func (m *serviceManager) Material() MaterialService       { return m.material }
func (m *serviceManager) Video() VideoService             { return m.video }
