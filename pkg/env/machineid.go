package env

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// AppID salts the machine ID so it is not exposed on the broker.
const AppID = "remotelink"

// MachineID retrieves the unique ID identifying the machine, empty if
// unavailable.
func MachineID() string {
	id, err := machineid.ProtectedID(AppID)
	if err != nil {
		glog.Warningf("machine id: %v", err)
		return ""
	}
	if len(id) > 16 {
		id = id[:16]
	}
	return id
}
