package discovery

import (
	"fmt"
	"log"
	"strconv"

	"github.com/hashicorp/consul/api"

	"question-service/internal/config"
)

// ServiceRegistry registers this service with Consul and resolves collaborator
// addresses through it. The whole package is optional: when CONSUL_ADDR is
// unset, main never constructs one.
type ServiceRegistry struct {
	client *api.Client
	cfg    config.ConsulConfig
	port   string
}

func NewServiceRegistry(cfg config.ConsulConfig, port string) (*ServiceRegistry, error) {
	consulConfig := api.DefaultConfig()
	consulConfig.Address = cfg.Address

	client, err := api.NewClient(consulConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Consul client: %w", err)
	}
	return &ServiceRegistry{client: client, cfg: cfg, port: port}, nil
}

// Register announces the service with an HTTP health check on /health.
func (sr *ServiceRegistry) Register() error {
	httpPort, err := strconv.Atoi(sr.port)
	if err != nil {
		return fmt.Errorf("invalid HTTP port: %w", err)
	}

	registration := &api.AgentServiceRegistration{
		ID:      sr.serviceID(),
		Name:    sr.cfg.ServiceName,
		Port:    httpPort,
		Address: sr.cfg.ServiceAddress,
		Check: &api.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s:%s/health", sr.cfg.ServiceAddress, sr.port),
			Interval: "10s",
			Timeout:  "5s",
		},
		Tags: []string{"question", "quiz", "http", "api"},
		Meta: map[string]string{
			"protocol": "http",
			"version":  "1.0",
		},
	}

	if err := sr.client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("failed to register with Consul: %w", err)
	}
	log.Printf("Registered %s with Consul at %s:%d", sr.cfg.ServiceName, sr.cfg.ServiceAddress, httpPort)
	return nil
}

func (sr *ServiceRegistry) Deregister() error {
	if err := sr.client.Agent().ServiceDeregister(sr.serviceID()); err != nil {
		log.Printf("Error deregistering service: %v", err)
		return err
	}
	log.Printf("Deregistered %s from Consul", sr.cfg.ServiceName)
	return nil
}

// ServiceURL returns http://host:port for the first healthy instance of the
// named service.
func (sr *ServiceRegistry) ServiceURL(serviceName string) (string, error) {
	services, _, err := sr.client.Health().Service(serviceName, "", true, nil)
	if err != nil {
		return "", fmt.Errorf("failed to find service %s: %w", serviceName, err)
	}
	if len(services) == 0 {
		return "", fmt.Errorf("no healthy instances of service %s found", serviceName)
	}

	entry := services[0]
	address := entry.Service.Address
	if address == "" {
		address = entry.Node.Address
	}
	return fmt.Sprintf("http://%s:%d", address, entry.Service.Port), nil
}

func (sr *ServiceRegistry) serviceID() string {
	return fmt.Sprintf("%s-%s-http", sr.cfg.ServiceName, sr.cfg.ServiceAddress)
}
