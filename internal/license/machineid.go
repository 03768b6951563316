package license

import (
	"encoding/binary"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wildfireconsulting/quantix/pkg/common"
)

const machineIDFile = "machine-id"

// MachineID derives a stable identifier for this installation: the first
// hardware MAC address as a decimal number, matching what the registry
// stores for machine-bound keys. Hosts without a usable interface get a
// random id persisted under the workdir so it survives restarts.
func MachineID(workdir string) string {
	if id := macMachineID(); id != "" {
		return id
	}
	return persistedMachineID(workdir)
}

func macMachineID() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if id := hardwareAddrID(iface.HardwareAddr); id != "" {
			return id
		}
	}
	return ""
}

// hardwareAddrID converts a 6-byte EUI-48 or 8-byte EUI-64 address to its
// decimal form. Longer addresses (InfiniBand) and all-zero addresses are
// rejected.
func hardwareAddrID(hw net.HardwareAddr) string {
	if len(hw) < 6 || len(hw) > 8 {
		return ""
	}
	var buf [8]byte
	copy(buf[8-len(hw):], hw)
	n := binary.BigEndian.Uint64(buf[:])
	if n == 0 {
		return ""
	}
	return strconv.FormatUint(n, 10)
}

func persistedMachineID(workdir string) string {
	path := filepath.Join(workdir, machineIDFile)
	if common.FileExists(path) {
		data, err := os.ReadFile(path)
		if err == nil {
			if id := strings.TrimSpace(string(data)); id != "" {
				return id
			}
		}
	}
	id := uuid.NewString()
	if err := os.WriteFile(path, []byte(id+"\n"), 0o644); err != nil {
		zap.L().Warn("machine id not persisted, a new id is generated on every start",
			zap.String("path", path), zap.Error(err))
	}
	return id
}
