// Package cache guarda resultados de consultas já serializados, em memória ou no Redis
package cache

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/appdotbuilder/revenue-dashboard/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverNone   = "none"
)

// Cache armazena valores serializados em JSON por chave dentro de uma versão.
// Invalidate avança a versão: leituras e gravações feitas com uma versão anterior não
// alcançam as entradas da versão nova.
type Cache interface {
	// Version retorna a versão atual das entradas
	Version(ctx context.Context) (int64, error)
	// Get preenche dest e retorna true quando a chave existe na versão informada
	Get(ctx context.Context, version int64, key string, dest interface{}) (bool, error)
	// Set grava na versão informada; gravações de versões antigas nunca são lidas
	Set(ctx context.Context, version int64, key string, value interface{}) error
	// Invalidate descarta todas as entradas avançando a versão
	Invalidate(ctx context.Context) error
}

// New cria o cache conforme CACHE_DRIVER
func New(ctx context.Context, cfg config.Cache) (Cache, error) {
	switch cfg.Driver {
	case DriverMemory, "":
		logrus.WithField("ttl", cfg.TTL).Info("Cache em memória habilitado")
		return NewMemory(cfg.TTL), nil
	case DriverRedis:
		client, err := NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"addr": cfg.RedisAddr,
			"ttl":  cfg.TTL,
		}).Info("Cache Redis habilitado")
		return NewRedis(client, cfg.TTL), nil
	case DriverNone:
		logrus.Info("Cache desabilitado por configuração")
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("cache: driver desconhecido %q", cfg.Driver)
	}
}

// NewRedisClient conecta ao Redis e valida a conexão
func NewRedisClient(ctx context.Context, addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: ping redis: %w", err)
	}

	return client, nil
}

// Nop não guarda nada
type Nop struct{}

func (Nop) Version(context.Context) (int64, error)                         { return 0, nil }
func (Nop) Get(context.Context, int64, string, interface{}) (bool, error) { return false, nil }
func (Nop) Set(context.Context, int64, string, interface{}) error         { return nil }
func (Nop) Invalidate(context.Context) error                               { return nil }
