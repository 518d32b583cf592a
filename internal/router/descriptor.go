package router

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
)

//go:embed pleroma.proto
var protoSource string

const protoFilename = "pleroma.proto"
const serviceName = "pleroma.Transport"
const methodName = "Route"

var (
	descOnce    sync.Once
	fileDesc    *desc.FileDescriptor
	envelopeMD  *desc.MessageDescriptor
	routeAckMD  *desc.MessageDescriptor
	valueMD     *desc.MessageDescriptor
	valueListMD *desc.MessageDescriptor
	entityRefMD *desc.MessageDescriptor
	serviceDesc *desc.ServiceDescriptor
	descErr     error
)

// loadDescriptor parses the embedded .proto at runtime via protoreflect
// rather than generated .pb.go stubs, letting a single Envelope message
// shape carry every Msg across the wire without a codegen step.
func loadDescriptor() error {
	descOnce.Do(func() {
		parser := protoparse.Parser{
			Accessor: protoparse.FileContentsFromMap(map[string]string{
				protoFilename: protoSource,
			}),
		}
		fds, err := parser.ParseFiles(protoFilename)
		if err != nil {
			descErr = fmt.Errorf("parsing embedded proto descriptor: %w", err)
			return
		}
		fileDesc = fds[0]

		envelopeMD = fileDesc.FindMessage("pleroma.Envelope")
		routeAckMD = fileDesc.FindMessage("pleroma.RouteAck")
		valueMD = fileDesc.FindMessage("pleroma.Value")
		valueListMD = fileDesc.FindMessage("pleroma.ValueList")
		entityRefMD = fileDesc.FindMessage("pleroma.EntityRefValue")
		if envelopeMD == nil || routeAckMD == nil || valueMD == nil || valueListMD == nil || entityRefMD == nil {
			descErr = fmt.Errorf("embedded proto descriptor is missing an expected message type")
			return
		}

		serviceDesc = fileDesc.FindService(serviceName)
		if serviceDesc == nil {
			descErr = fmt.Errorf("embedded proto descriptor is missing service %s", serviceName)
		}
	})
	return descErr
}
