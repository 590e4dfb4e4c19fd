package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	historyService "newsroom_backend/internals/features/cms/histories/service"
	"newsroom_backend/internals/features/news/galleries/dto"
	"newsroom_backend/internals/features/news/galleries/model"
	"newsroom_backend/internals/features/news/galleries/repository"
	postRepo "newsroom_backend/internals/features/news/posts/repository"
	settingsService "newsroom_backend/internals/features/news/settings/service"
	"newsroom_backend/internals/helpers/cache"
	"newsroom_backend/internals/helpers/images"
)

const ImagePath = "data/uploads/module/news/gallery"

var (
	ErrNotFound     = repository.ErrNotFound
	ErrPostNotFound = errors.New("gallery: post not found")
	ErrFileRequired = errors.New("gallery: image file is required")
)

type Service struct {
	repo     *repository.GalleryRepository
	posts    *postRepo.PostRepository
	settings *settingsService.Service
	store    images.Store
	rootURL  string
	history  *historyService.Service
	cache    *cache.FeedCache
}

type Deps struct {
	DB       *gorm.DB
	Settings *settingsService.Service
	Store    images.Store
	RootURL  string
	History  *historyService.Service
	Cache    *cache.FeedCache
}

func NewService(d Deps) *Service {
	return &Service{
		repo:     repository.NewGalleryRepository(d.DB),
		posts:    postRepo.NewPostRepository(d.DB),
		settings: d.Settings,
		store:    d.Store,
		rootURL:  d.RootURL,
		history:  d.History,
		cache:    d.Cache,
	}
}

func (s *Service) Repository() *repository.GalleryRepository { return s.repo }

// Manager builds the gallery image manager for the current settings.
func (s *Service) Manager(st settingsService.Settings) *images.Manager {
	return images.NewManager(s.store, ImagePath, s.rootURL, st.CoverQuality, st.GalleryImageSizes()...)
}

func (s *Service) toDTOs(rows []model.GalleryModel, m *images.Manager) []dto.GalleryDTO {
	out := make([]dto.GalleryDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToGalleryDTO(r, m.Bag(r.GalleryID, r.GalleryImage)))
	}
	return out
}

func (s *Service) FetchAllByPostID(ctx context.Context, postID uint) ([]dto.GalleryDTO, error) {
	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.FetchAllByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.toDTOs(rows, s.Manager(st)), nil
}

func (s *Service) FetchByID(ctx context.Context, id uint) (dto.GalleryDTO, error) {
	st, err := s.settings.Get(ctx)
	if err != nil {
		return dto.GalleryDTO{}, err
	}
	row, err := s.repo.FetchByID(ctx, id)
	if err != nil {
		return dto.GalleryDTO{}, err
	}
	return dto.ToGalleryDTO(row, s.Manager(st).Bag(row.GalleryID, row.GalleryImage)), nil
}

// Add stores a new image for postID. order nil appends to the end.
func (s *Service) Add(ctx context.Context, postID uint, order *int, file *images.File) (dto.GalleryDTO, error) {
	if file == nil {
		return dto.GalleryDTO{}, ErrFileRequired
	}
	if _, err := s.posts.FetchPost(ctx, postID); err != nil {
		if errors.Is(err, postRepo.ErrNotFound) {
			return dto.GalleryDTO{}, ErrPostNotFound
		}
		return dto.GalleryDTO{}, err
	}
	st, err := s.settings.Get(ctx)
	if err != nil {
		return dto.GalleryDTO{}, err
	}
	m := s.Manager(st)

	row := model.GalleryModel{GalleryPostID: postID, GalleryImage: images.SafeName(file.Name)}
	err = s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if order != nil {
			row.GalleryOrder = *order
		} else {
			next, err := repo.NextOrder(ctx, postID)
			if err != nil {
				return err
			}
			row.GalleryOrder = next
		}
		if err := repo.Create(ctx, &row); err != nil {
			return fmt.Errorf("create gallery row: %w", err)
		}
		return m.Upload(ctx, row.GalleryID, row.GalleryImage, file.Data)
	})
	if err != nil {
		if row.GalleryID != 0 {
			s.cleanupFiles(ctx, m, row.GalleryID)
		}
		return dto.GalleryDTO{}, err
	}

	s.history.Write(ctx, "News", "Image %q has been added to post #%d", row.GalleryImage, postID)
	s.cache.Bump(ctx)
	return dto.ToGalleryDTO(row, m.Bag(row.GalleryID, row.GalleryImage)), nil
}

// Update changes the order and, when file is given, replaces the image.
func (s *Service) Update(ctx context.Context, id uint, order *int, file *images.File) (dto.GalleryDTO, error) {
	row, err := s.repo.FetchByID(ctx, id)
	if err != nil {
		return dto.GalleryDTO{}, err
	}
	st, err := s.settings.Get(ctx)
	if err != nil {
		return dto.GalleryDTO{}, err
	}
	m := s.Manager(st)

	cols := map[string]any{}
	if order != nil {
		cols["gallery_order"] = *order
		row.GalleryOrder = *order
	}
	oldImage := row.GalleryImage
	if file != nil {
		row.GalleryImage = images.SafeName(file.Name)
		cols["gallery_image"] = row.GalleryImage
	}

	err = s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateColumns(ctx, id, cols); err != nil {
			return err
		}
		if file == nil {
			return nil
		}
		if err := m.Upload(ctx, id, row.GalleryImage, file.Data); err != nil {
			return err
		}
		return m.Delete(ctx, id, oldImage)
	})
	if err != nil {
		return dto.GalleryDTO{}, err
	}

	s.history.Write(ctx, "News", "Gallery image #%d has been updated", id)
	s.cache.Bump(ctx)
	return dto.ToGalleryDTO(row, m.Bag(row.GalleryID, row.GalleryImage)), nil
}

func (s *Service) DeleteByID(ctx context.Context, id uint) error {
	row, err := s.repo.FetchByID(ctx, id)
	if err != nil {
		return err
	}
	st, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	m := s.Manager(st)
	err = s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := m.Delete(ctx, id, ""); err != nil {
			return err
		}
		return s.repo.WithTx(tx).DeleteByID(ctx, id)
	})
	if err != nil {
		return err
	}
	s.history.Write(ctx, "News", "Image %q has been removed from post #%d", row.GalleryImage, row.GalleryPostID)
	s.cache.Bump(ctx)
	return nil
}

// RemoveForPosts deletes gallery files and rows of postIDs inside tx.
func (s *Service) RemoveForPosts(ctx context.Context, tx *gorm.DB, st settingsService.Settings, postIDs []uint) error {
	repo := s.repo.WithTx(tx)
	rows, err := repo.FetchAllByPostIDs(ctx, postIDs)
	if err != nil {
		return err
	}
	m := s.Manager(st)
	for _, r := range rows {
		if err := m.Delete(ctx, r.GalleryID, ""); err != nil {
			return err
		}
	}
	return repo.DeleteByPostIDs(ctx, postIDs)
}

func (s *Service) cleanupFiles(ctx context.Context, m *images.Manager, id uint) {
	if err := m.Delete(ctx, id, ""); err != nil {
		log.Printf("[NEWS] cleanup gallery #%d files: %v", id, err)
	}
}
