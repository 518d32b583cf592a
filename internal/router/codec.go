package router

import (
	"fmt"

	"github.com/jhump/protoreflect/dynamic"

	"github.com/hylic-lang/pleroma/internal/ast"
	"github.com/hylic-lang/pleroma/internal/evaluator"
)

// nodeToValueMsg converts one evaluated ast value node into the wire
// Value message, recursing for List.
func nodeToValueMsg(n ast.Node) (*dynamic.Message, error) {
	msg := dynamic.NewMessage(valueMD)
	switch v := n.(type) {
	case *ast.Number:
		return msg, msg.SetFieldByName("number", v.Value)
	case *ast.String:
		return msg, msg.SetFieldByName("str", v.Value)
	case *ast.Char:
		return msg, msg.SetFieldByName("ch", int32(v.Value))
	case *ast.Bool:
		return msg, msg.SetFieldByName("boolean", v.Value)
	case *ast.None, nil:
		return msg, msg.SetFieldByName("none", true)
	case *ast.List:
		listMsg := dynamic.NewMessage(valueListMD)
		for _, elem := range v.Elements {
			elemMsg, err := nodeToValueMsg(elem)
			if err != nil {
				return nil, err
			}
			if err := listMsg.TryAddRepeatedFieldByName("items", elemMsg); err != nil {
				return nil, err
			}
		}
		return msg, msg.SetFieldByName("list", listMsg)
	case *ast.EntityRef:
		refMsg := dynamic.NewMessage(entityRefMD)
		if err := refMsg.SetFieldByName("node_id", v.Address.NodeID); err != nil {
			return nil, err
		}
		if err := refMsg.SetFieldByName("vat_id", v.Address.VatID); err != nil {
			return nil, err
		}
		if err := refMsg.SetFieldByName("entity_id", v.Address.EntityID); err != nil {
			return nil, err
		}
		return msg, msg.SetFieldByName("entity_ref", refMsg)
	default:
		return nil, fmt.Errorf("value of type %T has no wire representation", n)
	}
}

func valueMsgToNode(msg *dynamic.Message) (ast.Node, error) {
	switch {
	case msg.HasFieldName("number"):
		v, _ := msg.GetFieldByName("number")
		n := &ast.Number{Value: v.(int64)}
		return n, nil
	case msg.HasFieldName("str"):
		v, _ := msg.GetFieldByName("str")
		return &ast.String{Value: v.([]byte)}, nil
	case msg.HasFieldName("ch"):
		v, _ := msg.GetFieldByName("ch")
		return &ast.Char{Value: rune(v.(int32))}, nil
	case msg.HasFieldName("boolean"):
		v, _ := msg.GetFieldByName("boolean")
		return &ast.Bool{Value: v.(bool)}, nil
	case msg.HasFieldName("list"):
		v, _ := msg.GetFieldByName("list")
		listMsg, ok := v.(*dynamic.Message)
		if !ok {
			return &ast.List{}, nil
		}
		items, _ := listMsg.GetFieldByName("items")
		elems := items.([]interface{})
		out := &ast.List{}
		for _, e := range elems {
			elemMsg, ok := e.(*dynamic.Message)
			if !ok {
				continue
			}
			node, err := valueMsgToNode(elemMsg)
			if err != nil {
				return nil, err
			}
			out.Elements = append(out.Elements, node.(ast.Expression))
		}
		return out, nil
	case msg.HasFieldName("entity_ref"):
		v, _ := msg.GetFieldByName("entity_ref")
		refMsg := v.(*dynamic.Message)
		nodeID, _ := refMsg.GetFieldByName("node_id")
		vatID, _ := refMsg.GetFieldByName("vat_id")
		entityID, _ := refMsg.GetFieldByName("entity_id")
		return &ast.EntityRef{Address: ast.EntityAddress{
			NodeID:   nodeID.(uint32),
			VatID:    vatID.(uint32),
			EntityID: entityID.(uint32),
		}}, nil
	default:
		return &ast.None{}, nil
	}
}

// msgToEnvelope builds the wire Envelope for one evaluator.Msg.
func msgToEnvelope(m *evaluator.Msg) (*dynamic.Message, error) {
	env := dynamic.NewMessage(envelopeMD)
	env.SetFieldByName("dest_node_id", m.Dest.NodeID)
	env.SetFieldByName("dest_vat_id", m.Dest.VatID)
	env.SetFieldByName("dest_entity_id", m.Dest.EntityID)
	env.SetFieldByName("src_node_id", m.Source.NodeID)
	env.SetFieldByName("src_vat_id", m.Source.VatID)
	env.SetFieldByName("src_entity_id", m.Source.EntityID)
	env.SetFieldByName("function_name", m.Function)
	env.SetFieldByName("promise_id", m.PromiseID)
	env.SetFieldByName("response", m.Response)
	if m.Err != nil {
		env.SetFieldByName("error_kind", m.Err.Kind)
		env.SetFieldByName("error_message", m.Err.Message)
	}
	for _, v := range m.Values {
		vm, err := nodeToValueMsg(v)
		if err != nil {
			return nil, err
		}
		if err := env.TryAddRepeatedFieldByName("values", vm); err != nil {
			return nil, err
		}
	}
	return env, nil
}

func envelopeToMsg(env *dynamic.Message) (*evaluator.Msg, error) {
	get := func(name string) interface{} {
		v, _ := env.GetFieldByName(name)
		return v
	}

	m := &evaluator.Msg{
		Dest: ast.EntityAddress{
			NodeID:   get("dest_node_id").(uint32),
			VatID:    get("dest_vat_id").(uint32),
			EntityID: get("dest_entity_id").(uint32),
		},
		Source: ast.EntityAddress{
			NodeID:   get("src_node_id").(uint32),
			VatID:    get("src_vat_id").(uint32),
			EntityID: get("src_entity_id").(uint32),
		},
		Function:  get("function_name").(string),
		PromiseID: get("promise_id").(uint32),
		Response:  get("response").(bool),
	}

	if kind, _ := env.GetFieldByName("error_kind"); kind != nil && kind.(string) != "" {
		message, _ := env.GetFieldByName("error_message")
		m.Err = &evaluator.RuntimeError{Kind: kind.(string), Message: message.(string)}
	}

	values, _ := env.GetFieldByName("values")
	for _, v := range values.([]interface{}) {
		vm, ok := v.(*dynamic.Message)
		if !ok {
			continue
		}
		node, err := valueMsgToNode(vm)
		if err != nil {
			return nil, err
		}
		m.Values = append(m.Values, node)
	}

	return m, nil
}
