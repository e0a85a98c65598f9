package cache

import (
	"fmt"
	"log"
	"net"
	"os"
	"strings"
)

// NewFromEnv picks a cache driver from the environment: a Valkey cluster when
// VALKEY_NODES or VALKEY_SERVICE is set, memcached when MEMCACHED_ADDR is set.
func NewFromEnv() Cache {
	if addrs := resolveValkeyAddrs(); len(addrs) > 0 {
		return NewValkey(addrs)
	}

	if addr := os.Getenv("MEMCACHED_ADDR"); addr != "" {
		return NewMemcached(addr)
	}

	log.Fatal(
		"no cache discovery env provided (VALKEY_NODES, VALKEY_SERVICE or MEMCACHED_ADDR)",
	)
	return nil
}

func resolveValkeyAddrs() []string {
	if nodes := os.Getenv("VALKEY_NODES"); nodes != "" {
		return strings.Split(nodes, ",")
	}

	if svc := os.Getenv("VALKEY_SERVICE"); svc != "" {
		addrs, err := net.LookupHost(svc)
		if err != nil {
			log.Fatalf("failed to resolve %s: %v", svc, err)
		}
		var out []string
		for _, ip := range addrs {
			out = append(out, fmt.Sprintf("%s:6379", ip))
		}
		return out
	}

	return nil
}
