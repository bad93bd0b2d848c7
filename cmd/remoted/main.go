package main

import (
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/remotelink/pkg/env"
	fx "github.com/robotalks/remotelink/pkg/framework"
	"github.com/robotalks/remotelink/pkg/remote"
)

func init() {
	env.SetupFlags()
	remote.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := remote.NewConfig()
	envConf := env.NewConfig()
	envConf.Info.Meta.Bridge = conf.BridgeMeta()
	e := envConf.MustNewEnv()

	bridge, err := conf.NewBridge(e.Registrar)
	if err != nil {
		glog.Exitln(err)
	}
	loop := fx.NewLoop().Add(e, bridge)
	err = fx.NewRunner().HandleSignals().Go(loop, bridge).Wait()
	if err != nil && err != fx.ErrForcedExit {
		glog.Exitln(err)
	}
}
