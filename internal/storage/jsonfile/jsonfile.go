// Package jsonfile реализует хранилище в виде одного JSON-документа на диске.
// Документ целиком держится в памяти; каждая мутация переписывает файл
// атомарно (временный файл + rename) под мьютексом одного писателя.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/drnine9/marketplace-web/internal/model"
	"github.com/drnine9/marketplace-web/internal/storage"
)

// document описывает структуру файла db.json: именованные коллекции записей.
type document struct {
	Users              []model.User              `json:"users"`
	Products           []model.Product           `json:"products"`
	Orders             []model.Order             `json:"orders"`
	Drivers            []model.Driver            `json:"drivers"`
	Areas              []model.Area              `json:"areas"`
	DriverApplications []model.DriverApplication `json:"driverApplications"`
	Invoices           []model.Invoice           `json:"invoices"`
}

func emptyDocument() document {
	return document{
		Users:              []model.User{},
		Products:           []model.Product{},
		Orders:             []model.Order{},
		Drivers:            []model.Driver{},
		Areas:              []model.Area{},
		DriverApplications: []model.DriverApplication{},
		Invoices:           []model.Invoice{},
	}
}

// Store хранит документ в памяти и отражает его на диск при каждой записи.
type Store struct {
	mu   sync.Mutex
	path string
	doc  document
}

// New загружает документ из файла по указанному пути. Отсутствующий файл
// создаётся с пустыми коллекциями.
func New(path string) (*Store, error) {
	s := &Store{path: path, doc: emptyDocument()}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := s.save(); err != nil {
			return nil, err
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read store file: %w", err)
	}

	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("decode store file: %w", err)
	}

	return s, nil
}

// Close ничего не освобождает: файловых дескрипторов между записями не держим.
func (s *Store) Close() error {
	return nil
}

// save переписывает файл целиком. Вызывается только под s.mu.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".db-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace store file: %w", err)
	}

	return nil
}

// GetOrCreateUser возвращает пользователя по Telegram-идентификатору, создавая
// его при первом обращении.
func (s *Store) GetOrCreateUser(ctx context.Context, telegramID int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Users {
		if s.doc.Users[i].TelegramID == telegramID {
			u := s.doc.Users[i]
			return &u, nil
		}
	}

	u := model.User{
		TelegramID: telegramID,
		Points:     0,
		CreatedAt:  time.Now(),
	}
	s.doc.Users = append(s.doc.Users, u)

	if err := s.save(); err != nil {
		s.doc.Users = s.doc.Users[:len(s.doc.Users)-1]
		return nil, err
	}

	return &u, nil
}

// CreateDriverApplication атомарно сохраняет заявку курьера вместе со счётом
// регистрационного сбора.
func (s *Store) CreateDriverApplication(ctx context.Context, app model.DriverApplication, inv model.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.DriverApplications = append(s.doc.DriverApplications, app)
	s.doc.Invoices = append(s.doc.Invoices, inv)

	if err := s.save(); err != nil {
		s.doc.DriverApplications = s.doc.DriverApplications[:len(s.doc.DriverApplications)-1]
		s.doc.Invoices = s.doc.Invoices[:len(s.doc.Invoices)-1]
		return err
	}

	return nil
}

// CreateProduct атомарно сохраняет товар вместе со счётом сбора за публикацию.
func (s *Store) CreateProduct(ctx context.Context, product model.Product, inv model.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Products = append(s.doc.Products, product)
	s.doc.Invoices = append(s.doc.Invoices, inv)

	if err := s.save(); err != nil {
		s.doc.Products = s.doc.Products[:len(s.doc.Products)-1]
		s.doc.Invoices = s.doc.Invoices[:len(s.doc.Invoices)-1]
		return err
	}

	return nil
}

// CreateInvoice сохраняет одиночный счёт (пополнение кошелька, запрос вывода).
func (s *Store) CreateInvoice(ctx context.Context, inv model.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Invoices = append(s.doc.Invoices, inv)

	if err := s.save(); err != nil {
		s.doc.Invoices = s.doc.Invoices[:len(s.doc.Invoices)-1]
		return err
	}

	return nil
}

// ListInvoices возвращает копию всей коллекции счетов.
func (s *Store) ListInvoices(ctx context.Context) ([]model.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Invoice, len(s.doc.Invoices))
	copy(out, s.doc.Invoices)
	return out, nil
}

// GetInvoice возвращает счёт по идентификатору.
func (s *Store) GetInvoice(ctx context.Context, id string) (*model.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Invoices {
		if s.doc.Invoices[i].ID == id {
			inv := s.doc.Invoices[i]
			return &inv, nil
		}
	}

	return nil, storage.ErrInvoiceNotFound
}

// UpdateInvoiceStatus переводит счёт в указанный статус и сохраняет документ.
func (s *Store) UpdateInvoiceStatus(ctx context.Context, id string, status model.InvoiceStatus, strict bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Invoices {
		if s.doc.Invoices[i].ID != id {
			continue
		}

		prev := s.doc.Invoices[i].Status
		if strict && prev.Terminal() && prev != status {
			return storage.ErrInvoiceFinalized
		}

		s.doc.Invoices[i].Status = status
		if err := s.save(); err != nil {
			s.doc.Invoices[i].Status = prev
			return err
		}
		return nil
	}

	return storage.ErrInvoiceNotFound
}
